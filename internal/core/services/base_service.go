package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/ports"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events ports.EventPublisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// PublishEvent hands an event to the configured publisher. Failures are logged and swallowed
// since the ledger write has already been committed.
func (s *BaseService) PublishEvent(ctx context.Context, event domain.LedgerEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(event.Type)),
			slog.String("household_id", event.HouseholdID))
	}
}

// requireHousehold rejects an actor with no resolved household.
func requireHousehold(actor domain.Membership) error {
	if actor.Household.HouseholdID == "" || actor.Member.MemberID == "" {
		return fmt.Errorf("%w: no household membership", apperrors.ErrForbidden)
	}
	return nil
}
