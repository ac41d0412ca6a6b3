package repository

import (
	"context"
	"time"

	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecommendationAuditRepository stores accepted recommendations for
// analytics. Writes are best-effort from the pipeline's perspective;
// retention is handled here, not by the pipeline.
type RecommendationAuditRepository struct {
	db dbtx
}

func NewRecommendationAuditRepository(pool *pgxpool.Pool) *RecommendationAuditRepository {
	return &RecommendationAuditRepository{db: pool}
}

func NewRecommendationAuditRepositoryWithTx(tx pgx.Tx) *RecommendationAuditRepository {
	return &RecommendationAuditRepository{db: tx}
}

// BulkInsert writes one row per (input, recommended) pair. Existing pairs
// are skipped, so repeated generations are idempotent at the storage layer.
func (r *RecommendationAuditRepository) BulkInsert(ctx context.Context, records []domain.RecommendationRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		_, err := r.db.Exec(ctx,
			`INSERT INTO track_recommendations
			 (id, input_track_id, recommended_track_id, score, reason, model_version, cached_until, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (input_track_id, recommended_track_id) DO NOTHING`,
			id, rec.InputTrackID, rec.RecommendedTrackID, rec.Score, rec.Reason,
			rec.ModelVersion, rec.CachedUntil, createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByInputTrack returns audit rows for one input track, newest first.
func (r *RecommendationAuditRepository) ListByInputTrack(ctx context.Context, inputTrackID string) ([]*domain.RecommendationRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, input_track_id, recommended_track_id, score, reason, model_version, cached_until, created_at
		 FROM track_recommendations
		 WHERE input_track_id = $1
		 ORDER BY created_at DESC`,
		inputTrackID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.RecommendationRecord
	for rows.Next() {
		var rec domain.RecommendationRecord
		if err := rows.Scan(
			&rec.ID, &rec.InputTrackID, &rec.RecommendedTrackID, &rec.Score, &rec.Reason,
			&rec.ModelVersion, &rec.CachedUntil, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteExpired removes rows whose cached_until is older than before.
// Used by the retention worker.
func (r *RecommendationAuditRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM track_recommendations WHERE cached_until < $1`,
		before,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
