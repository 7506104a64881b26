package executor

import (
	"context"
	"time"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
)

// Middleware wraps a Capability with a cross-cutting concern.
type Middleware func(Capability) Capability

// Chain applies middleware left to right: the first listed wraps outermost.
func Chain(capability Capability, mws ...Middleware) Capability {
	for i := len(mws) - 1; i >= 0; i-- {
		capability = mws[i](capability)
	}
	return capability
}

// WithTracing wraps a capability with OpenTelemetry span creation.
// Each invocation creates a span named "{prefix}.{taskID}".
func WithTracing(prefix string) Middleware {
	return func(next Capability) Capability {
		return func(ctx context.Context, work any) (any, error) {
			taskID := TaskIDFromContext(ctx)
			ctx, span := observability.StartSpan(ctx, prefix+"."+taskID)
			defer span.End()

			observability.SetSpanAttribute(ctx, "flowkit.task", taskID)

			output, err := next(ctx, work)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return output, err
		}
	}
}

// WithMetrics wraps a capability with metric recording: operation count,
// duration, and errors per task.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(next Capability) Capability {
		return func(ctx context.Context, work any) (any, error) {
			start := time.Now()
			output, err := next(ctx, work)
			duration := time.Since(start)

			taskID := TaskIDFromContext(ctx)
			status := "ok"
			if err != nil {
				status = "error"
				metrics.RecordError(ctx, "execute", taskID)
			}
			metrics.RecordOperation(ctx, taskID, "task.run", status, duration)

			return output, err
		}
	}
}

// WithLogging wraps a capability with per-invocation logging.
func WithLogging(log *logger.Logger) Middleware {
	return func(next Capability) Capability {
		return func(ctx context.Context, work any) (any, error) {
			start := time.Now()
			output, err := next(ctx, work)
			duration := time.Since(start)

			fields := logger.Fields(
				logger.FieldTask, TaskIDFromContext(ctx),
				logger.FieldDuration, duration.Milliseconds(),
			)
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.Error("capability invocation failed", fields)
			} else {
				log.Debug("capability invocation completed", fields)
			}
			return output, err
		}
	}
}
