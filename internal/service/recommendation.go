package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/fiston-user/musicez-api/internal/cache"
	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/fiston-user/musicez-api/internal/openai"
	"github.com/fiston-user/musicez-api/internal/telemetry"
)

const (
	// DefaultLimit is the number of recommendations requested when the
	// caller does not specify one
	DefaultLimit = 10
	// MaxLimit bounds a single-item request
	MaxLimit = 50
)

// GenerateParams are the caller-supplied options for one pipeline run.
// A nil Limit means the caller omitted it and the default applies; an
// explicit out-of-range value, including zero, is rejected.
type GenerateParams struct {
	Limit           *int
	IncludeAnalysis bool
	ForceRefresh    bool
}

// CompletionClient defines the AI boundary the pipeline depends on
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*openai.Completion, error)
	Model() string
}

// TrackRepository defines the catalog identity lookup
type TrackRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Track, error)
}

// Matcher reconciles AI suggestions against the catalog
type Matcher interface {
	Match(ctx context.Context, suggestions []domain.AISuggestion) ([]domain.MatchedRecommendation, error)
}

// RecommendationAuditRepository persists accepted recommendations for
// analytics. Writes are best-effort from the pipeline's perspective.
type RecommendationAuditRepository interface {
	BulkInsert(ctx context.Context, records []domain.RecommendationRecord) error
}

// RecommendationService runs the single-item pipeline: cache lookup, prompt
// construction, AI call, response validation, catalog matching, audit write,
// cache population.
type RecommendationService struct {
	tracks   TrackRepository
	matcher  Matcher
	ai       CompletionClient
	store    cache.Store
	audit    RecommendationAuditRepository
	cacheTTL time.Duration
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(
	tracks TrackRepository,
	matcher Matcher,
	ai CompletionClient,
	store cache.Store,
	audit RecommendationAuditRepository,
) *RecommendationService {
	return NewRecommendationServiceWithTTL(tracks, matcher, ai, store, audit, cache.DefaultTTL)
}

// NewRecommendationServiceWithTTL creates a RecommendationService with an
// explicit cache entry lifetime.
func NewRecommendationServiceWithTTL(
	tracks TrackRepository,
	matcher Matcher,
	ai CompletionClient,
	store cache.Store,
	audit RecommendationAuditRepository,
	cacheTTL time.Duration,
) *RecommendationService {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	return &RecommendationService{
		tracks:   tracks,
		matcher:  matcher,
		ai:       ai,
		store:    store,
		audit:    audit,
		cacheTTL: cacheTTL,
	}
}

// Generate produces a ranked recommendation list for one track. Errors carry
// a stable domain code; audit and cache write failures are logged and never
// surfaced.
func (s *RecommendationService) Generate(ctx context.Context, trackID string, params GenerateParams) (*domain.RecommendationResult, error) {
	if trackID == "" {
		return nil, domain.ErrMissingTrackID
	}
	limit := DefaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, domain.ErrLimitOutOfRange
	}

	start := time.Now()
	key := cache.Key(trackID, limit, params.IncludeAnalysis)

	if !params.ForceRefresh {
		if cached := s.readCache(ctx, key); cached != nil {
			cached.Metadata.CacheHit = true
			return cached, nil
		}
	}

	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	userPrompt := BuildUserPrompt(track, limit, params.IncludeAnalysis)

	aiCtx, span := telemetry.StartSpan(ctx, "ai.complete", telemetry.SpanAttributes{
		TrackID:   trackID,
		Operation: "recommendation.generate",
	})
	completion, err := s.ai.Complete(aiCtx, BuildSystemPrompt(), userPrompt)
	if err != nil {
		span.SetError(err)
		span.End()
		return nil, mapAIError(err)
	}
	span.End()

	suggestions, err := ParseSuggestions(completion.Content)
	if err != nil {
		return nil, err
	}

	matched, err := s.matcher.Match(ctx, suggestions)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "catalog matching failed", err)
	}

	s.recordAudit(ctx, trackID, matched)

	result := &domain.RecommendationResult{
		Recommendations: matched,
		Metadata: domain.RecommendationMetadata{
			InputTrack:           track.Summary(),
			TotalRecommendations: len(matched),
			ProcessingTimeMs:     time.Since(start).Milliseconds(),
			CacheHit:             false,
			TokensUsed:           completion.TokensUsed,
		},
	}

	s.writeCache(ctx, key, result)

	return result, nil
}

func (s *RecommendationService) readCache(ctx context.Context, key string) *domain.RecommendationResult {
	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("cache read failed for %s: %v", key, err)
		return nil
	}
	if !found {
		return nil
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		log.Printf("cache entry for %s is corrupt, regenerating: %v", key, err)
		return nil
	}
	return &result
}

func (s *RecommendationService) writeCache(ctx context.Context, key string, result *domain.RecommendationResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("cache marshal failed for %s: %v", key, err)
		return
	}
	if err := s.store.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}
}

// recordAudit persists one row per (input, recommended) pair. Duplicate
// pairs within the call are skipped; any storage error is swallowed.
func (s *RecommendationService) recordAudit(ctx context.Context, trackID string, matched []domain.MatchedRecommendation) {
	if len(matched) == 0 {
		return
	}

	cachedUntil := time.Now().UTC().Add(s.cacheTTL)
	seen := make(map[string]struct{}, len(matched))
	records := make([]domain.RecommendationRecord, 0, len(matched))
	for _, rec := range matched {
		if _, ok := seen[rec.Track.ID]; ok {
			continue
		}
		seen[rec.Track.ID] = struct{}{}
		records = append(records, domain.RecommendationRecord{
			InputTrackID:       trackID,
			RecommendedTrackID: rec.Track.ID,
			Score:              rec.Score,
			Reason:             rec.Reason,
			ModelVersion:       s.ai.Model(),
			CachedUntil:        cachedUntil,
		})
	}

	if err := s.audit.BulkInsert(ctx, records); err != nil {
		log.Printf("audit write failed for track %s: %v", trackID, err)
	}
}

func mapAIError(err error) error {
	var callErr *openai.CallError
	if errors.As(err, &callErr) {
		switch callErr.Kind {
		case openai.FailureTimeout:
			return domain.NewDomainErrorWithCause(domain.ErrCodeAIServiceTimeout, "AI provider call timed out", err)
		case openai.FailureRateLimited:
			return domain.NewDomainErrorWithCause(domain.ErrCodeRateLimitExceeded, "AI provider rate limit exceeded", err)
		}
	}
	return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "AI provider call failed", err)
}
