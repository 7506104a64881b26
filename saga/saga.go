package saga

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// ForwardFunc performs a step's forward action and returns its output.
type ForwardFunc func(ctx context.Context) (any, error)

// CompensateFunc undoes a completed forward action. It receives the
// forward action's output so it can target exactly what was done.
type CompensateFunc func(ctx context.Context, forwardOutput any) error

// Step is one unit of saga work: a forward action plus an optional
// compensating action. A nil Compensate means the step needs no undo.
type Step struct {
	Name       string
	Forward    ForwardFunc
	Compensate CompensateFunc
}

// Config configures a Coordinator.
type Config struct {
	// Logger receives compensation events. Nil disables logging.
	Logger *logger.Logger
}

// Coordinator runs saga bodies with automatic rollback.
type Coordinator struct {
	log *logger.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{log: log.WithComponent("saga")}
}

// completed is a step that ran forward successfully, retained on the
// rollback stack together with what it produced.
type completed struct {
	step   Step
	output any
}

// RunWithCompensation executes the steps in order. Each success is pushed
// onto a stack; on the first failure the stack is popped and every
// compensating action runs in reverse order. Compensation failures never
// mask the original failure, which is what the returned error carries.
func (c *Coordinator) RunWithCompensation(ctx context.Context, steps []Step) (Result, error) {
	result := Result{
		SagaID:  uuid.NewString(),
		Outputs: make(map[string]any, len(steps)),
	}
	log := c.log.WithFields(logger.Fields("saga_id", result.SagaID))

	stack := make([]completed, 0, len(steps))
	for _, step := range steps {
		if step.Name == "" {
			err := errors.MissingField("step.name")
			result.Report = c.unwind(ctx, log, stack)
			return result, err
		}
		if err := ctx.Err(); err != nil {
			failure := errors.Cancelled("saga cancelled before step " + step.Name).WithCause(err)
			result.Report = c.unwind(ctx, log, stack)
			return result, failure
		}

		output, err := step.Forward(ctx)
		if err != nil {
			log.Warn("saga step failed, unwinding", logger.Fields(
				logger.FieldStep, step.Name,
				logger.FieldError, err.Error(),
				"completed_steps", len(stack),
			))
			result.Report = c.unwind(ctx, log, stack)
			return result, err
		}

		stack = append(stack, completed{step: step, output: output})
		result.Outputs[step.Name] = output
	}

	return result, nil
}

// unwind pops the stack and runs each compensating action, best-effort.
// Compensation runs detached from the cancellation signal so cleanup is
// not itself cut short by the event that triggered it.
func (c *Coordinator) unwind(ctx context.Context, log *logger.Logger, stack []completed) *CompensationReport {
	report := &CompensationReport{
		Records: make([]CompensationRecord, 0, len(stack)),
	}
	compCtx := context.WithoutCancel(ctx)

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		if entry.step.Compensate == nil {
			report.Records = append(report.Records, CompensationRecord{
				Step:   entry.step.Name,
				Status: CompensationSkipped,
			})
			continue
		}

		if err := entry.step.Compensate(compCtx, entry.output); err != nil {
			log.Error("compensation failed, continuing unwind", logger.Fields(
				logger.FieldStep, entry.step.Name,
				logger.FieldError, err.Error(),
			))
			report.Records = append(report.Records, CompensationRecord{
				Step:   entry.step.Name,
				Status: CompensationFailed,
				Err:    err,
			})
			continue
		}

		log.Debug("step compensated", logger.Fields(logger.FieldStep, entry.step.Name))
		report.Records = append(report.Records, CompensationRecord{
			Step:   entry.step.Name,
			Status: CompensationSucceeded,
		})
	}
	return report
}
