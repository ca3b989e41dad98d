package repository

import (
	"context"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

// DispatchLogRepository persists one audit record per dispatch.
// The pgx implementation is in pg_dispatch_log_repo.go; the bounded
// in-memory one (memory_dispatch_log_repo.go) backs tests and deployments
// without a database.
type DispatchLogRepository interface {
	Record(ctx context.Context, rec *domain.DispatchRecord) error
	GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.DispatchRecord, error)
}
