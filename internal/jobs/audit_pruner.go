package jobs

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// DefaultRetention keeps audit rows for a week past their cache window
	DefaultRetention = 7 * 24 * time.Hour
)

// AuditRepository defines the interface for audit row retention
type AuditRepository interface {
	// DeleteExpired removes audit rows whose cache window ended before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AuditPruner deletes recommendation audit rows whose cached_until fell
// outside the retention window. Retention is owned by the audit store, so
// the pipeline never sees these deletions.
type AuditPruner struct {
	repo      AuditRepository
	retention time.Duration
}

// NewAuditPruner creates a new AuditPruner instance
func NewAuditPruner(repo AuditRepository, retention time.Duration) *AuditPruner {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &AuditPruner{
		repo:      repo,
		retention: retention,
	}
}

// Run implements the Task interface
func (p *AuditPruner) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-p.retention)

	deleted, err := p.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune audit rows: %w", err)
	}

	if deleted > 0 {
		log.Printf("Pruned %d expired recommendation audit rows", deleted)
	}

	return nil
}
