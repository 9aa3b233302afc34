package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
	"github.com/culinarynotes/culinarynotes/internal/repository"
)

// uniqueKey is one unique key of an entity kind. name is reported in
// DuplicateKeyError.Key; constraint is the store constraint enforcing it.
type uniqueKey[E any] struct {
	name       string
	constraint string
	same       func(a, b *E) bool
	describe   func(e *E) string
	taken      func(ctx context.Context, e *E) (bool, error)
}

// keySet holds the unique keys of an entity kind in check order.
type keySet[E any] struct {
	entity  string
	keys    []uniqueKey[E]
	metrics metrics.Recorder
}

// checkCreate fails on the first key of candidate that is already taken.
func (ks keySet[E]) checkCreate(ctx context.Context, candidate *E) error {
	for _, k := range ks.keys {
		if err := ks.check(ctx, k, candidate); err != nil {
			return err
		}
	}
	return nil
}

// checkUpdate is checkCreate restricted to keys whose value changes.
func (ks keySet[E]) checkUpdate(ctx context.Context, existing, detail *E) error {
	for _, k := range ks.keys {
		if k.same(existing, detail) {
			continue
		}
		if err := ks.check(ctx, k, detail); err != nil {
			return err
		}
	}
	return nil
}

func (ks keySet[E]) check(ctx context.Context, k uniqueKey[E], e *E) error {
	taken, err := k.taken(ctx, e)
	if err != nil {
		return err
	}
	if taken {
		ks.metrics.IncDuplicateRejected(ks.entity, k.name)
		return &DuplicateKeyError{Entity: ks.entity, Key: k.name, Value: k.describe(e)}
	}
	return nil
}

// saveError converts a store unique violation into a DuplicateKeyError.
// Other errors are wrapped with action.
func (ks keySet[E]) saveError(err error, e *E, action string) error {
	var uv *repository.UniqueViolationError
	if !errors.As(err, &uv) {
		return fmt.Errorf("failed to %s %s: %w", action, ks.entity, err)
	}
	for _, k := range ks.keys {
		if k.constraint == uv.Constraint {
			ks.metrics.IncDuplicateRejected(ks.entity, k.name)
			return &DuplicateKeyError{Entity: ks.entity, Key: k.name, Value: k.describe(e), Err: err}
		}
	}
	ks.metrics.IncDuplicateRejected(ks.entity, uv.Constraint)
	return &DuplicateKeyError{Entity: ks.entity, Key: uv.Constraint, Err: err}
}

// operation carries the correlation fields of one service call.
type operation struct {
	name    string
	started time.Time
	log     *slog.Logger
	metrics metrics.Recorder
}

func startOperation(logger *slog.Logger, recorder metrics.Recorder, name string, attrs ...any) *operation {
	args := append([]any{"operation", name, "operation_id", ulid.Make().String()}, attrs...)
	return &operation{
		name:    name,
		started: time.Now(),
		log:     logger.With(args...),
		metrics: recorder,
	}
}

// done records the operation duration and logs its outcome.
func (op *operation) done(ctx context.Context, err error) {
	elapsed := time.Since(op.started)
	op.metrics.ObserveOperationDuration(op.name, elapsed)

	switch {
	case err == nil:
		op.log.DebugContext(ctx, "operation completed", "duration_ms", elapsed.Milliseconds())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateKey):
		op.log.WarnContext(ctx, "operation rejected", "error", err)
	default:
		op.log.ErrorContext(ctx, "operation failed", "error", err)
	}
}

func defaults(logger *slog.Logger, recorder metrics.Recorder) (*slog.Logger, metrics.Recorder) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return logger, recorder
}
