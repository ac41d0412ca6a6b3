//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/fiston-user/musicez-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTracks(ctx context.Context, t *testing.T, repo *TrackRepository, n int) []*domain.Track {
	tracks := make([]*domain.Track, n)
	for i := range tracks {
		tracks[i] = newTrack("Track", "Artist")
		require.NoError(t, repo.Create(ctx, tracks[i]))
	}
	return tracks
}

func TestRecommendationAuditRepository_BulkInsertAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	trackRepo := NewTrackRepository(pool)
	auditRepo := NewRecommendationAuditRepository(pool)

	tracks := seedTracks(ctx, t, trackRepo, 3)
	cachedUntil := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)

	records := []domain.RecommendationRecord{
		{
			InputTrackID:       tracks[0].ID,
			RecommendedTrackID: tracks[1].ID,
			Score:              0.9,
			Reason:             "similar energy",
			ModelVersion:       "gpt-4o-mini",
			CachedUntil:        cachedUntil,
		},
		{
			InputTrackID:       tracks[0].ID,
			RecommendedTrackID: tracks[2].ID,
			Score:              0.7,
			ModelVersion:       "gpt-4o-mini",
			CachedUntil:        cachedUntil,
		},
	}

	require.NoError(t, auditRepo.BulkInsert(ctx, records))

	got, err := auditRepo.ListByInputTrack(ctx, tracks[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, tracks[0].ID, rec.InputTrackID)
		assert.Equal(t, "gpt-4o-mini", rec.ModelVersion)
		assert.False(t, rec.CreatedAt.IsZero())
	}
}

func TestRecommendationAuditRepository_BulkInsert_DuplicatePairIsSkipped(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	trackRepo := NewTrackRepository(pool)
	auditRepo := NewRecommendationAuditRepository(pool)

	tracks := seedTracks(ctx, t, trackRepo, 2)
	record := domain.RecommendationRecord{
		InputTrackID:       tracks[0].ID,
		RecommendedTrackID: tracks[1].ID,
		Score:              0.9,
		CachedUntil:        time.Now().UTC().Add(time.Hour),
	}

	require.NoError(t, auditRepo.BulkInsert(ctx, []domain.RecommendationRecord{record}))
	require.NoError(t, auditRepo.BulkInsert(ctx, []domain.RecommendationRecord{record}))

	got, err := auditRepo.ListByInputTrack(ctx, tracks[0].ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecommendationAuditRepository_BulkInsert_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	auditRepo := NewRecommendationAuditRepository(pool)

	assert.NoError(t, auditRepo.BulkInsert(ctx, nil))
}

func TestRecommendationAuditRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	trackRepo := NewTrackRepository(pool)
	auditRepo := NewRecommendationAuditRepository(pool)

	tracks := seedTracks(ctx, t, trackRepo, 3)
	now := time.Now().UTC()

	expired := domain.RecommendationRecord{
		InputTrackID:       tracks[0].ID,
		RecommendedTrackID: tracks[1].ID,
		Score:              0.9,
		CachedUntil:        now.Add(-48 * time.Hour),
	}
	fresh := domain.RecommendationRecord{
		InputTrackID:       tracks[0].ID,
		RecommendedTrackID: tracks[2].ID,
		Score:              0.8,
		CachedUntil:        now.Add(time.Hour),
	}
	require.NoError(t, auditRepo.BulkInsert(ctx, []domain.RecommendationRecord{expired, fresh}))

	deleted, err := auditRepo.DeleteExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	got, err := auditRepo.ListByInputTrack(ctx, tracks[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tracks[2].ID, got[0].RecommendedTrackID)
}
