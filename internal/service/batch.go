package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/fiston-user/musicez-api/internal/openai"
	"github.com/fiston-user/musicez-api/internal/telemetry"
)

const (
	// MaxBatchSize bounds the number of tracks per batch call
	MaxBatchSize = 10
	// MaxBatchLimit bounds the per-item limit within a batch
	MaxBatchLimit = 20

	minConcurrency = 2
	maxConcurrency = 5
	chunkDivisor   = 3
)

// BatchParams are the caller-supplied options applied to every batch item.
// A nil Limit means the caller omitted it; an explicit zero is rejected.
type BatchParams struct {
	Limit           *int
	IncludeAnalysis bool
}

// Generator defines the single-item pipeline the orchestrator drives
type Generator interface {
	Generate(ctx context.Context, trackID string, params GenerateParams) (*domain.RecommendationResult, error)
}

// BatchService runs the recommendation pipeline over many tracks with
// bounded, size-adaptive concurrency and per-item failure isolation.
type BatchService struct {
	generator Generator
}

// NewBatchService creates a new BatchService instance
func NewBatchService(generator Generator) *BatchService {
	return &BatchService{generator: generator}
}

type itemOutcome struct {
	result   *domain.RecommendationResult
	err      error
	duration time.Duration
}

// GenerateBatch processes trackIDs in sequential chunks of the computed
// concurrency; within a chunk all items run concurrently and every outcome
// is collected. A per-item failure never aborts the batch; only invalid
// batch parameters fail the call itself.
func (s *BatchService) GenerateBatch(ctx context.Context, trackIDs []string, params BatchParams) (*domain.BatchResult, error) {
	if len(trackIDs) < 1 || len(trackIDs) > MaxBatchSize {
		return nil, domain.ErrBatchSizeOutOfRange
	}
	limit := DefaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > MaxBatchLimit {
		return nil, domain.ErrBatchLimitOutOfRange
	}

	ctx, span := telemetry.StartSpan(ctx, "recommendations.batch", telemetry.SpanAttributes{
		BatchSize: len(trackIDs),
		Operation: "recommendation.batch",
	})
	defer span.End()

	concurrency := batchConcurrency(len(trackIDs))
	itemParams := GenerateParams{Limit: &limit, IncludeAnalysis: params.IncludeAnalysis}

	start := time.Now()
	outcomes := make([]itemOutcome, len(trackIDs))

	for chunkStart := 0; chunkStart < len(trackIDs); chunkStart += concurrency {
		chunkEnd := chunkStart + concurrency
		if chunkEnd > len(trackIDs) {
			chunkEnd = len(trackIDs)
		}
		s.runChunk(ctx, trackIDs[chunkStart:chunkEnd], itemParams, outcomes[chunkStart:chunkEnd])
	}

	return s.aggregate(trackIDs, outcomes, concurrency, time.Since(start)), nil
}

// runChunk dispatches every item in the chunk concurrently and waits for all
// of them to settle. A failing or panicking item never cancels its siblings.
func (s *BatchService) runChunk(ctx context.Context, trackIDs []string, params GenerateParams, outcomes []itemOutcome) {
	var wg sync.WaitGroup
	for i, trackID := range trackIDs {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			itemStart := time.Now()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("batch item %s panicked: %v", id, r)
					outcomes[slot] = itemOutcome{
						err:      fmt.Errorf("batch item panicked: %v", r),
						duration: time.Since(itemStart),
					}
				}
			}()

			result, err := s.generator.Generate(ctx, id, params)
			outcomes[slot] = itemOutcome{
				result:   result,
				err:      err,
				duration: time.Since(itemStart),
			}
		}(i, trackID)
	}
	wg.Wait()
}

func (s *BatchService) aggregate(trackIDs []string, outcomes []itemOutcome, concurrency int, elapsed time.Duration) *domain.BatchResult {
	items := make([]domain.BatchItemResult, len(outcomes))
	breakdown := make(map[string]int)

	var processed, failed, cacheHits, totalTokens int
	var itemTimeSum time.Duration

	for i, outcome := range outcomes {
		itemTimeSum += outcome.duration

		if outcome.err != nil {
			failed++
			kind := classifyBatchError(outcome.err)
			breakdown[kind]++
			items[i] = domain.BatchItemResult{
				TrackID:      trackIDs[i],
				Success:      false,
				ErrorKind:    kind,
				ErrorMessage: outcome.err.Error(),
			}
			continue
		}

		processed++
		if outcome.result.Metadata.CacheHit {
			cacheHits++
		}
		if outcome.result.Metadata.TokensUsed != nil {
			totalTokens += *outcome.result.Metadata.TokensUsed
		}
		items[i] = domain.BatchItemResult{
			TrackID:         trackIDs[i],
			Success:         true,
			Recommendations: outcome.result.Recommendations,
		}
	}

	return &domain.BatchResult{
		Items: items,
		Metadata: domain.BatchMetadata{
			Processed:               processed,
			Failed:                  failed,
			TotalProcessingTimeMs:   elapsed.Milliseconds(),
			AverageProcessingTimeMs: (itemTimeSum / time.Duration(len(outcomes))).Milliseconds(),
			ConcurrencyUsed:         concurrency,
			CacheHitRate:            roundRate(cacheHits, len(outcomes)),
			TotalTokensUsed:         totalTokens,
			FailureBreakdown:        breakdown,
		},
	}
}

// batchConcurrency computes clamp(ceil(n/3), 2, 5): small batches keep
// parallelism headroom, large batches stay capped to protect the provider.
func batchConcurrency(n int) int {
	concurrency := (n + chunkDivisor - 1) / chunkDivisor
	if concurrency < minConcurrency {
		concurrency = minConcurrency
	}
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}
	return concurrency
}

func roundRate(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(hits)/float64(total)*100) / 100
}

// classifyBatchError maps an item failure into its histogram bucket. AI
// transport faults that are neither throttling nor timeout count as network
// errors; everything unclassified lands in the unknown bucket.
func classifyBatchError(err error) string {
	var callErr *openai.CallError
	if errors.As(err, &callErr) {
		switch callErr.Kind {
		case openai.FailureTimeout:
			return domain.BatchErrTimeout
		case openai.FailureRateLimited:
			return domain.BatchErrRateLimitExceeded
		default:
			return domain.BatchErrNetwork
		}
	}

	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		switch domErr.Code {
		case domain.ErrCodeRateLimitExceeded:
			return domain.BatchErrRateLimitExceeded
		case domain.ErrCodeAIServiceTimeout:
			return domain.BatchErrTimeout
		case domain.ErrCodeSongNotFound:
			return domain.BatchErrSongNotFound
		case domain.ErrCodeValidation:
			return domain.BatchErrValidation
		}
	}

	return domain.BatchErrUnknown
}
