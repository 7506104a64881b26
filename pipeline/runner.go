package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/executor"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/resilience"
	"github.com/kbukum/flowkit/resource"
	"github.com/kbukum/flowkit/saga"
	"github.com/kbukum/flowkit/scheduler"
)

// Compensation is a named undo action registered with a Runner. When a
// run fails, compensations execute in reverse registration order, each
// receiving the failing run's report.
type Compensation struct {
	Name string
	Run  func(ctx context.Context, report RunReport) error
}

// Config configures a Runner.
type Config struct {
	// Capability executes one task's opaque work descriptor. Required.
	Capability executor.Capability
	// Middleware wraps the capability; the first listed is outermost.
	Middleware []executor.Middleware
	// Budget supplies validation ceilings and admission control limits.
	// Zero values get defaults.
	Budget resource.Budget
	// IOIntensive classifies opaque work descriptors for validation.
	// Nil means only the per-task declared flag counts.
	IOIntensive resource.IOPredicate
	// Retry is the per-task backoff policy. Zero value gets defaults.
	Retry resilience.RetryConfig
	// Logger receives run lifecycle events. Nil disables logging.
	Logger *logger.Logger
	// Hooks receive task lifecycle notifications.
	Hooks scheduler.Hooks
	// Metrics, when set, records per-run operation metrics.
	Metrics *observability.Metrics
	// Compensations are the undo actions for a failed run.
	Compensations []Compensation
}

// Runner drives the run state machine over a task graph.
type Runner struct {
	budget        resource.Budget
	validator     *resource.Validator
	sched         *scheduler.Scheduler
	log           *logger.Logger
	metrics       *observability.Metrics
	compensations []Compensation
}

// NewRunner builds a Runner: capability wrapped in middleware, executor
// configured from the budget's timeout multiplier, scheduler configured
// from its admission ceilings.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Capability == nil {
		return nil, errors.MissingField("capability")
	}

	budget := cfg.Budget
	budget.ApplyDefaults()
	if budget.MaxParallel <= 0 {
		budget.MaxParallel = resource.DefaultBudget().MaxParallel
	}
	if budget.MemoryLimitMB <= 0 {
		budget.MemoryLimitMB = resource.DefaultBudget().MemoryLimitMB
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	capability := cfg.Capability
	if len(cfg.Middleware) > 0 {
		capability = executor.Chain(capability, cfg.Middleware...)
	}

	exec := executor.New(capability, executor.Config{
		TimeoutMultiplier: budget.TimeoutMultiplier,
		Retry:             cfg.Retry,
		Logger:            cfg.Logger,
	})

	return &Runner{
		budget:    budget,
		validator: &resource.Validator{IOIntensive: cfg.IOIntensive},
		sched: scheduler.New(exec, scheduler.Config{
			Budget: budget,
			Logger: cfg.Logger,
			Hooks:  cfg.Hooks,
		}),
		log:           log.WithComponent("pipeline"),
		metrics:       cfg.Metrics,
		compensations: cfg.Compensations,
	}, nil
}

// Run validates, schedules and executes the given task declarations as
// one pipeline run. On any post-validation failure the registered
// compensations run before the report is returned; the primary error is
// always the run failure, never a compensation outcome.
func (r *Runner) Run(ctx context.Context, tasks []graph.Task) RunReport {
	start := time.Now()
	report := RunReport{RunID: uuid.NewString(), Status: StatusFailed}
	log := r.log.WithRun(report.RunID)

	defer func() {
		report.Duration = time.Since(start)
		if r.metrics != nil {
			r.metrics.RecordOperation(context.WithoutCancel(ctx),
				"pipeline", "run", string(report.Status), report.Duration)
		}
	}()

	// Validating: structural checks plus static resource analysis.
	// Failures here short-circuit with nothing to compensate.
	r.enter(log, &report, StateValidating)
	g, err := r.validate(ctx, &report, tasks)
	if err != nil {
		report.State = StateFailed
		report.Err = err
		log.Warn("run rejected by validation", logger.Fields(
			logger.FieldError, err.Error(),
			"conflicts", len(report.Conflicts),
		))
		return report
	}

	r.enter(log, &report, StateScheduling)
	r.enter(log, &report, StateRunning)

	runCtx, span := observability.StartSpan(ctx, observability.SpanRunSchedule)
	observability.SetSpanAttribute(runCtx, observability.AttrRunID, report.RunID)
	run := r.sched.Run(runCtx, g)
	observability.SetSpanAttribute(runCtx, observability.AttrStatus, string(run.Status))
	if run.Err != nil {
		observability.SetSpanError(runCtx, run.Err)
	}
	span.End()

	report.Results = run.Results

	switch run.Status {
	case scheduler.RunCompleted:
		report.Status = StatusCompleted
		report.State = StateCompleted
		log.Info("run completed", logger.Fields(
			"tasks", len(run.Results),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return report
	case scheduler.RunCancelled:
		report.Status = StatusCancelled
	default:
		report.Status = StatusFailed
	}
	report.Err = run.Err

	r.enter(log, &report, StateFailed)
	r.enter(log, &report, StateCompensating)
	report.Compensation = r.compensate(ctx, log, report)
	r.enter(log, &report, StateCompensated)

	return report
}

// validate builds the graph and runs static resource analysis, stamping
// any conflicts into the report.
func (r *Runner) validate(ctx context.Context, report *RunReport, tasks []graph.Task) (*graph.TaskGraph, error) {
	vctx, span := observability.StartSpan(ctx, observability.SpanRunValidate)
	defer span.End()
	observability.SetSpanAttribute(vctx, observability.AttrRunID, report.RunID)

	g, err := graph.Build(tasks)
	if err != nil {
		observability.SetSpanError(vctx, err)
		return nil, err
	}

	conflicts := r.validator.Validate(g, r.budget)
	if len(conflicts) > 0 {
		report.Conflicts = conflicts
		err := resource.ConflictsError(conflicts)
		observability.SetSpanError(vctx, err)
		return nil, err
	}
	return g, nil
}

// compensate runs the registered undo actions in reverse registration
// order, best-effort, detached from the cancellation signal so cleanup
// is not cut short by the event that triggered it.
func (r *Runner) compensate(ctx context.Context, log *logger.Logger, report RunReport) *saga.CompensationReport {
	cctx, span := observability.StartSpan(ctx, observability.SpanRunCompensate)
	defer span.End()
	observability.SetSpanAttribute(cctx, observability.AttrRunID, report.RunID)

	compCtx := context.WithoutCancel(ctx)
	out := &saga.CompensationReport{
		Records: make([]saga.CompensationRecord, 0, len(r.compensations)),
	}

	for i := len(r.compensations) - 1; i >= 0; i-- {
		comp := r.compensations[i]
		if err := comp.Run(compCtx, report); err != nil {
			log.Error("compensation failed, continuing unwind", logger.Fields(
				logger.FieldStep, comp.Name,
				logger.FieldError, err.Error(),
			))
			out.Records = append(out.Records, saga.CompensationRecord{
				Step:   comp.Name,
				Status: saga.CompensationFailed,
				Err:    err,
			})
			continue
		}
		log.Debug("compensation applied", logger.Fields(logger.FieldStep, comp.Name))
		out.Records = append(out.Records, saga.CompensationRecord{
			Step:   comp.Name,
			Status: saga.CompensationSucceeded,
		})
	}
	return out
}

func (r *Runner) enter(log *logger.Logger, report *RunReport, s State) {
	report.State = s
	log.Debug("state transition", logger.Fields("state", string(s)))
}
