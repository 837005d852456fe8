package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/customer-service/internal/platform/logging"
)

// Remote-first write pattern: Validate → Perform → Verify → Archive → Respond
//
// Writes that span the identity provider and the local store run through
// these steps in order:
//  1. VALIDATE - local preconditions (uniqueness, reference lookups); no writes
//  2. PERFORM  - the remote call against the system of record
//  3. VERIFY   - check what the remote side returned before trusting it
//  4. ARCHIVE  - the local write, reached only after remote success
//  5. RESPOND  - hand the result to the output port
//
// A failure before ARCHIVE leaves the local store untouched. A failure in
// ARCHIVE means the remote side already changed; OnArchiveFailure is invoked
// so the anomaly can be reported, and the error still propagates.

// ExecutionStep represents a step in the pattern.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in. It unwraps to the
// cause, so domain sentinels stay reachable through errors.Is.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func stepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs operations through the remote-first pattern.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation bundles the step functions. Nil steps are skipped.
//
// I is the operation input, P what the remote call returned, V the verified
// value the local write and the response are built from.
type Operation[I, P, V any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) (V, error)
	Respond  func(ctx context.Context, input I, archived V)

	// OnArchiveFailure runs when the remote side succeeded but the local
	// write did not.
	OnArchiveFailure func(ctx context.Context, input I, verified V, err error)
}

// Execute runs op for input and returns the archived value.
func Execute[I, P, V any](ctx context.Context, exec *Executor, op Operation[I, P, V], input I) (V, error) {
	var zero V

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.DebugContext(ctx, "validation rejected input", slog.Any("error", err))
			return zero, stepError(StepValidate, op.Name+" rejected", err)
		}
	}

	var performed P

	if op.Perform != nil {
		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.WarnContext(ctx, "remote call failed, nothing written locally", slog.Any("error", err))
			return zero, stepError(StepPerform, op.Name+" remote call failed", err)
		}
	}

	var verified V

	if op.Verify != nil {
		var err error

		verified, err = op.Verify(ctx, input, performed)
		if err != nil {
			logger.ErrorContext(ctx, "remote result rejected", slog.Any("error", err))
			return zero, stepError(StepVerify, op.Name+" remote result rejected", err)
		}
	}

	archived := verified

	if op.Archive != nil {
		var err error

		archived, err = op.Archive(ctx, input, verified)
		if err != nil {
			logger.ErrorContext(ctx, "local write failed after remote success", slog.Any("error", err))

			if op.OnArchiveFailure != nil {
				op.OnArchiveFailure(ctx, input, verified, err)
			}

			return zero, stepError(StepArchive, op.Name+" local write failed", err)
		}
	}

	if op.Respond != nil {
		op.Respond(ctx, input, archived)
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return archived, nil
}

// GetExecutionStep extracts the failing step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
