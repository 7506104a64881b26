package candidate

import "context"

// Score is an evaluator's verdict on one candidate output.
type Score struct {
	// Value is the numeric quality score, 0 to 100.
	Value float64 `json:"value"`
	// Metadata carries evaluator-specific findings, e.g. strengths or
	// confidence. May be nil.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Candidate is one strategy's scored output competing for selection.
type Candidate struct {
	// ID uniquely identifies this candidate within the run.
	ID string `json:"id"`
	// Strategy is the name of the strategy that produced the output.
	Strategy string `json:"strategy"`
	// Output is the strategy's result, opaque to the orchestrator.
	Output any `json:"-"`
	// Score is the evaluator's verdict.
	Score Score `json:"score"`
}

// Evaluator scores a candidate output. Implementations must treat the
// output as opaque beyond their own domain knowledge and return a value
// in [0, 100].
type Evaluator interface {
	Evaluate(ctx context.Context, output any) (Score, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, output any) (Score, error)

// Evaluate calls the underlying function.
func (f EvaluatorFunc) Evaluate(ctx context.Context, output any) (Score, error) {
	return f(ctx, output)
}
