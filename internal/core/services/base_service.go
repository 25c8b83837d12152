package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/middleware"
	"github.com/SscSPs/bookkeeping_core/internal/platform/metrics"
)

const defaultPageSize = 100

// BaseService provides common functionality for all services
type BaseService struct {
	clock    func() time.Time
	metrics  *metrics.Metrics
	pageSize int
}

// ServiceOption is a functional option for configuring a service
type ServiceOption func(*BaseService)

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.metrics = m
	}
}

// WithPageSize sets how many rows lazy sequences fetch per store round trip.
func WithPageSize(n int) ServiceOption {
	return func(s *BaseService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{clock: time.Now, pageSize: defaultPageSize}
	for _, option := range options {
		option(&base)
	}
	return base
}

// now returns the current time in UTC at the precision every store keeps.
func (s *BaseService) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
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

// LogFailure logs err at a level matching its kind. Caller mistakes are
// debug; anything else is an error and is counted.
func (s *BaseService) LogFailure(ctx context.Context, err error, operation string, keyvals ...any) {
	if isExpected(err) {
		args := append([]any{slog.String("error", err.Error())}, keyvals...)
		s.LogDebug(ctx, operation+" rejected", args...)
		return
	}
	s.metrics.OperationFailed(operation)
	s.LogError(ctx, err, operation+" failed", keyvals...)
}

func isExpected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrConstraintViolation) ||
		errors.Is(err, apperrors.ErrInvalidStateTransition) ||
		errors.Is(err, apperrors.ErrUnauthorized)
}

// RequireActor checks that the call carries an identity.
func (s *BaseService) RequireActor(actor domain.Actor, action string) error {
	if actor.ID == "" {
		return fmt.Errorf("%w: %s requires an actor", apperrors.ErrUnauthorized, action)
	}
	return nil
}

// RequirePrivileged checks that the actor may perform a privileged action.
func (s *BaseService) RequirePrivileged(actor domain.Actor, action string) error {
	if err := s.RequireActor(actor, action); err != nil {
		return err
	}
	if !actor.Privileged {
		return fmt.Errorf("%w: %s requires a privileged actor", apperrors.ErrUnauthorized, action)
	}
	return nil
}

// pageFunc fetches one page starting after nextToken.
type pageFunc[T any] func(limit int, nextToken *string) ([]T, *string, error)

// paginate turns a paged store query into a lazy sequence. Every range over
// the result starts from the first page, and no store resources are held
// between yields.
func paginate[T any](pageSize int, fetch pageFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var token *string
		for {
			page, next, err := fetch(pageSize, token)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			token = next
		}
	}
}

// collectPages drains every page of fetch.
func collectPages[T any](pageSize int, fetch pageFunc[T]) ([]T, error) {
	var items []T
	for item, err := range paginate(pageSize, fetch) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// snapshotSeq runs load in one read-only snapshot each time the sequence is
// ranged, then yields what it read. All items of a range come from the same
// committed state, and the snapshot is released before the first yield.
func snapshotSeq[T any](ctx context.Context, tx portsrepo.TransactionManager, load func(ctx context.Context, repos portsrepo.Repositories) ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var items []T
		err := tx.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
			var err error
			items, err = load(ctx, repos)
			return err
		})
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}
