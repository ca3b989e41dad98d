package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/domain"
	"github.com/notifyhub/telegram-sender/internal/i18n"
	"github.com/notifyhub/telegram-sender/internal/provider"
	"github.com/notifyhub/telegram-sender/internal/repository"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Hooks decouples the service from the metrics package.
// Nil fields are skipped.
type Hooks struct {
	OnDispatched  func(result domain.DispatchResult, latency time.Duration)
	OnAuditFailed func()
}

// DispatchService wraps a Dispatcher with the parts every caller wants:
// panic containment, outcome logging, metrics and the audit trail.
// HTTP handlers and the CLI depend on this service, never on the provider.
type DispatchService struct {
	dispatcher provider.Dispatcher
	repo       repository.DispatchLogRepository
	hooks      Hooks
	tr         *i18n.Translator
	logger     *zap.Logger
	now        func() time.Time
}

func NewDispatchService(
	dispatcher provider.Dispatcher,
	repo repository.DispatchLogRepository,
	hooks Hooks,
	tr *i18n.Translator,
	logger *zap.Logger,
) *DispatchService {
	if tr == nil {
		tr = i18n.MustDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchService{
		dispatcher: dispatcher,
		repo:       repo,
		hooks:      hooks,
		tr:         tr,
		logger:     logger.Named("dispatch"),
		now:        time.Now,
	}
}

// Dispatch forwards req to the provider and always returns a result.
// Validation is the caller's job; an empty chat id still reaches the
// provider, which rejects it.
func (s *DispatchService) Dispatch(ctx context.Context, req domain.DispatchRequest) domain.DispatchResult {
	start := s.now()
	corrID := domain.CorrelationID(ctx)

	result := s.safeDispatch(ctx, req, corrID)
	latency := s.now().Sub(start)

	s.logger.Info("dispatch completed",
		zap.String("correlation_id", corrID),
		zap.String("chat_id", req.ChatID),
		zap.String("outcome", string(result.Outcome)),
		zap.Bool("success", result.Success),
		zap.Int("error_code", result.ErrorCode),
		zap.Duration("latency", latency),
	)

	if s.hooks.OnDispatched != nil {
		s.hooks.OnDispatched(result, latency)
	}

	s.audit(ctx, req, result, corrID, start, latency)
	return result
}

func (s *DispatchService) GetRecord(ctx context.Context, id string) (*domain.DispatchRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRecords returns the newest records first. limit <= 0 selects
// DefaultListLimit; values above MaxListLimit are clamped.
func (s *DispatchService) ListRecords(ctx context.Context, limit int) ([]*domain.DispatchRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// ---- private helpers ----

func (s *DispatchService) safeDispatch(ctx context.Context, req domain.DispatchRequest, corrID string) (result domain.DispatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			digest := corrID
			if digest == "" {
				digest = uuid.New().String()
			}
			s.logger.Error("dispatcher panicked",
				zap.String("digest", digest),
				zap.String("panic", fmt.Sprint(rec)),
				zap.Stack("stack"),
			)
			result = domain.Failed(
				domain.OutcomeInternalError,
				s.tr.T("dispatch.internal_error", digest),
				domain.ErrorDescriptor("internal error", "digest", digest),
			)
		}
	}()
	return s.dispatcher.Dispatch(ctx, req)
}

// audit writes the dispatch record. A failed write is logged and counted
// but never changes the result returned to the caller.
func (s *DispatchService) audit(
	ctx context.Context,
	req domain.DispatchRequest,
	result domain.DispatchResult,
	corrID string,
	start time.Time,
	latency time.Duration,
) {
	if s.repo == nil {
		return
	}

	rec := &domain.DispatchRecord{
		ID:            uuid.New().String(),
		CorrelationID: corrID,
		ChatID:        req.ChatID,
		TextLength:    len([]rune(req.MessageText)),
		Outcome:       result.Outcome,
		Success:       result.Success,
		ErrorCode:     result.ErrorCode,
		Message:       result.Message,
		LatencyMs:     latency.Milliseconds(),
		CreatedAt:     start.UTC(),
	}
	if result.MessageID != 0 {
		id := result.MessageID
		rec.ProviderMessageID = &id
	}

	// The request context may already be cancelled (client went away);
	// the record should still land.
	if err := s.repo.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error("failed to write dispatch record",
			zap.String("correlation_id", corrID),
			zap.Error(err),
		)
		if s.hooks.OnAuditFailed != nil {
			s.hooks.OnAuditFailed()
		}
	}
}
