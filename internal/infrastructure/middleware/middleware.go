// internal/infrastructure/middleware/middleware.go
package middleware

import (
	"context"
	"time"

	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// Keys for context values
type contextKey string

const (
	operationIDKey contextKey = "operation_id"
)

// Action is one unit of work started from the menu
type Action func(ctx context.Context) error

// Middleware wraps an action
type Middleware func(next Action) Action

// Chain wraps action so that the first middleware runs outermost
func Chain(action Action, mws ...Middleware) Action {
	for i := len(mws) - 1; i >= 0; i-- {
		action = mws[i](action)
	}
	return action
}

// OperationIDMiddleware adds a unique operation ID to each action
func OperationIDMiddleware(next Action) Action {
	return func(ctx context.Context) error {
		// Keep an ID that an outer caller already assigned
		if _, ok := ctx.Value(operationIDKey).(string); ok {
			return next(ctx)
		}
		return next(WithOperationID(ctx, uuid.New().String()))
	}
}

// LoggingMiddleware logs the start and outcome of each action
func LoggingMiddleware(log logger.Logger, name string) Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			startTime := time.Now()
			operationID := GetOperationID(ctx)

			log.Debug("Action started", map[string]interface{}{
				"operation_id": operationID,
				"action":       name,
			})

			err := next(ctx)

			fields := map[string]interface{}{
				"operation_id": operationID,
				"action":       name,
				"duration_ms":  time.Since(startTime).Milliseconds(),
			}
			if err != nil {
				fields["error"] = err.Error()
				log.Warn("Action failed", fields)
				return err
			}

			log.Info("Action completed", fields)
			return nil
		}
	}
}

// MetricsMiddleware counts each action and its failures
func MetricsMiddleware(rec *metrics.Recorder, name string) Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			err := next(ctx)
			rec.ActionRun(name, err != nil)
			return err
		}
	}
}

// WithOperationID stores an operation ID in the context
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey, id)
}

// GetOperationID retrieves the operation ID from context
func GetOperationID(ctx context.Context) string {
	operationID, ok := ctx.Value(operationIDKey).(string)
	if !ok || operationID == "" {
		return "unknown"
	}
	return operationID
}
