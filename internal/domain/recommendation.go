package domain

import "time"

// AISuggestion is an untrusted (title, artist, reason, score) tuple returned
// by the language model. Scores are clamped into [0,1] by the parser; title
// and artist are free text and may not exist in the catalog.
type AISuggestion struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// MatchedRecommendation is an AISuggestion reconciled to a real catalog track.
type MatchedRecommendation struct {
	Track  TrackSummary `json:"track"`
	Score  float64      `json:"score"`
	Reason string       `json:"reason"`
}

// RecommendationMetadata describes how a RecommendationResult was produced.
type RecommendationMetadata struct {
	InputTrack           TrackSummary `json:"inputTrack"`
	TotalRecommendations int          `json:"totalRecommendations"`
	ProcessingTimeMs     int64        `json:"processingTimeMs"`
	CacheHit             bool         `json:"cacheHit"`
	TokensUsed           *int         `json:"tokensUsed,omitempty"`
}

// RecommendationResult is the outcome of one pipeline run. Recommendations
// keep the model's score order; the pipeline does not re-sort them.
type RecommendationResult struct {
	Recommendations []MatchedRecommendation `json:"recommendations"`
	Metadata        RecommendationMetadata  `json:"metadata"`
}

// RecommendationRecord is one persisted audit row per
// (input track, recommended track) pair per generation event.
type RecommendationRecord struct {
	ID                 string
	InputTrackID       string
	RecommendedTrackID string
	Score              float64
	Reason             string
	ModelVersion       string
	CachedUntil        time.Time
	CreatedAt          time.Time
}

// Batch error-kind buckets for per-item failures.
const (
	BatchErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	BatchErrTimeout           = "TIMEOUT"
	BatchErrSongNotFound      = "SONG_NOT_FOUND"
	BatchErrValidation        = "VALIDATION_ERROR"
	BatchErrNetwork           = "NETWORK_ERROR"
	BatchErrUnknown           = "UNKNOWN_ERROR"
)

// BatchItemResult is one input track's outcome within a batch call.
type BatchItemResult struct {
	TrackID         string                  `json:"trackId"`
	Success         bool                    `json:"success"`
	Recommendations []MatchedRecommendation `json:"recommendations,omitempty"`
	ErrorKind       string                  `json:"errorKind,omitempty"`
	ErrorMessage    string                  `json:"errorMessage,omitempty"`
}

// BatchMetadata aggregates a batch run.
type BatchMetadata struct {
	Processed               int            `json:"processed"`
	Failed                  int            `json:"failed"`
	TotalProcessingTimeMs   int64          `json:"totalProcessingTimeMs"`
	AverageProcessingTimeMs int64          `json:"averageProcessingTimeMs"`
	ConcurrencyUsed         int            `json:"concurrencyUsed"`
	CacheHitRate            float64        `json:"cacheHitRate"`
	TotalTokensUsed         int            `json:"totalTokensUsed"`
	FailureBreakdown        map[string]int `json:"failureBreakdown"`
}

// BatchResult always completes: per-item failures are folded into their
// BatchItemResult and never abort the batch. Item order mirrors input order.
type BatchResult struct {
	Items    []BatchItemResult `json:"items"`
	Metadata BatchMetadata     `json:"metadata"`
}
