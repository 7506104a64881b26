package candidate

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/executor"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/resource"
	"github.com/kbukum/flowkit/scheduler"
)

// Config configures an Orchestrator.
type Config struct {
	// Budget supplies the admission ceilings for strategy execution.
	Budget resource.Budget
	// Logger receives selection events. Nil disables logging.
	Logger *logger.Logger
}

// Orchestrator runs strategies concurrently and selects the best scored
// candidate.
type Orchestrator struct {
	sched *scheduler.Scheduler
	log   *logger.Logger
}

// New creates an Orchestrator dispatching strategies through exec.
func New(exec *executor.Executor, cfg Config) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	// Strategies are independent: one failure must not stop siblings.
	sched := scheduler.New(exec, scheduler.Config{
		Budget:            cfg.Budget,
		Logger:            cfg.Logger,
		ContinueOnFailure: true,
	})
	return &Orchestrator{
		sched: sched,
		log:   log.WithComponent("candidate"),
	}
}

// GenerateAndSelect runs every strategy, scores the surviving outputs and
// returns the best candidate at or above threshold. Below the threshold it
// returns the best candidate alongside a BELOW_QUALITY_THRESHOLD error so
// the caller can accept the degraded result or abort. When no strategy
// survives generation and evaluation it returns ALL_CANDIDATES_FAILED.
func (o *Orchestrator) GenerateAndSelect(ctx context.Context, strategies []Strategy, eval Evaluator, threshold float64) (Candidate, error) {
	if len(strategies) == 0 {
		return Candidate{}, errors.InvalidInput("strategies", "at least one strategy is required")
	}
	if eval == nil {
		return Candidate{}, errors.MissingField("evaluator")
	}

	tasks := make([]graph.Task, len(strategies))
	for i, s := range strategies {
		if s.Produce == nil {
			return Candidate{}, errors.MissingField("strategy.produce").
				WithDetail("strategy", s.Name)
		}
		tasks[i] = graph.Task{
			ID:       s.Name,
			Work:     s.Produce(),
			Parallel: true,
			Resource: s.Resource,
		}
	}
	g, err := graph.Build(tasks)
	if err != nil {
		return Candidate{}, err
	}

	run := o.sched.Run(ctx, g)
	if run.Status == scheduler.RunCancelled {
		return Candidate{}, run.Err
	}

	candidates := o.evaluate(ctx, strategies, run, eval)
	if len(candidates) == 0 {
		return Candidate{}, errors.AllCandidatesFailed(len(strategies))
	}

	// Descending by score; the stable sort keeps declaration order for
	// ties, so the first-declared strategy wins.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.Value > candidates[j].Score.Value
	})

	best := candidates[0]
	o.log.Debug("candidate selected", logger.Fields(
		logger.FieldStrategy, best.Strategy,
		"score", best.Score.Value,
		"threshold", threshold,
		"survivors", len(candidates),
	))

	if best.Score.Value < threshold {
		return best, errors.BelowQualityThreshold(best.ID, best.Score.Value, threshold).
			WithDetail("strategy", best.Strategy)
	}
	return best, nil
}

// evaluate scores successful strategy outputs, in declaration order.
// Failed strategies and evaluator errors drop the candidate without
// affecting siblings.
func (o *Orchestrator) evaluate(ctx context.Context, strategies []Strategy, run scheduler.RunResult, eval Evaluator) []Candidate {
	candidates := make([]Candidate, 0, len(strategies))
	for _, s := range strategies {
		res, ok := run.Results[s.Name]
		if !ok || res.Status != executor.StatusSucceeded {
			o.log.Debug("strategy dropped", logger.Fields(
				logger.FieldStrategy, s.Name,
				logger.FieldStatus, string(res.Status),
			))
			continue
		}
		score, err := eval.Evaluate(ctx, res.Output)
		if err != nil {
			o.log.Warn("evaluator rejected candidate", logger.Fields(
				logger.FieldStrategy, s.Name,
				logger.FieldError, err.Error(),
			))
			continue
		}
		candidates = append(candidates, Candidate{
			ID:       uuid.NewString(),
			Strategy: s.Name,
			Output:   res.Output,
			Score:    score,
		})
	}
	return candidates
}
