package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

type pgDispatchLogRepository struct {
	pool *pgxpool.Pool
}

// NewPgDispatchLogRepository returns a DispatchLogRepository backed by PostgreSQL.
func NewPgDispatchLogRepository(pool *pgxpool.Pool) DispatchLogRepository {
	return &pgDispatchLogRepository{pool: pool}
}

const dispatchLogColumns = `id, correlation_id, chat_id, text_length, outcome, success,
	error_code, message, provider_message_id, latency_ms, created_at`

func (r *pgDispatchLogRepository) Record(ctx context.Context, rec *domain.DispatchRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dispatch_log (`+dispatchLogColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, nullIfEmpty(rec.CorrelationID), rec.ChatID, rec.TextLength, string(rec.Outcome), rec.Success,
		nullIfZero(rec.ErrorCode), rec.Message, rec.ProviderMessageID, rec.LatencyMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dispatch record: %w", err)
	}
	return nil
}

func (r *pgDispatchLogRepository) GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+dispatchLogColumns+` FROM dispatch_log WHERE id = $1`, id)

	rec, err := scanDispatchRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

func (r *pgDispatchLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.DispatchRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+dispatchLogColumns+` FROM dispatch_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatch records: %w", err)
	}
	defer rows.Close()

	var out []*domain.DispatchRecord
	for rows.Next() {
		rec, err := scanDispatchRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// scanDispatchRecord works with both pgx.Row and pgx.Rows.
func scanDispatchRecord(row pgx.Row) (*domain.DispatchRecord, error) {
	var (
		rec           domain.DispatchRecord
		correlationID *string
		errorCode     *int
		outcome       string
	)
	err := row.Scan(
		&rec.ID, &correlationID, &rec.ChatID, &rec.TextLength, &outcome, &rec.Success,
		&errorCode, &rec.Message, &rec.ProviderMessageID, &rec.LatencyMs, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Outcome = domain.Outcome(outcome)
	if correlationID != nil {
		rec.CorrelationID = *correlationID
	}
	if errorCode != nil {
		rec.ErrorCode = *errorCode
	}
	return &rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
