package pipeline

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/executor"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/resilience"
	"github.com/kbukum/flowkit/resource"
	"github.com/kbukum/flowkit/saga"
)

func testConfig(capability executor.Capability) Config {
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	retry.MaxBackoff = 2 * time.Millisecond
	return Config{
		Capability: capability,
		Budget:     resource.Budget{MaxParallel: 4, MemoryLimitMB: 1024},
		Retry:      retry,
	}
}

func echoCapability(ctx context.Context, work any) (any, error) {
	if work == "fail" {
		return nil, stderrors.New("exit status 1")
	}
	return work, nil
}

func TestRun_Completed(t *testing.T) {
	r, err := NewRunner(testConfig(echoCapability))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(context.Background(), []graph.Task{
		{ID: "fetch", Work: "f"},
		{ID: "build", Work: "b", DependsOn: []string{"fetch"}},
	})

	if report.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (err: %v)", report.Status, report.Err)
	}
	if report.State != StateCompleted {
		t.Errorf("expected terminal state completed, got %s", report.State)
	}
	if report.Compensation != nil {
		t.Error("no compensation expected on success")
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.Results["build"].Output != "b" {
		t.Errorf("expected build output, got %v", report.Results["build"].Output)
	}
}

func TestRun_ValidationFailureShortCircuits(t *testing.T) {
	var compensated bool
	cfg := testConfig(echoCapability)
	cfg.Compensations = []Compensation{{
		Name: "cleanup",
		Run: func(ctx context.Context, report RunReport) error {
			compensated = true
			return nil
		},
	}}
	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(context.Background(), []graph.Task{
		{ID: "a", Parallel: true, Resource: graph.Resource{WorkingDir: "/x"}},
		{ID: "b", Parallel: true, Resource: graph.Resource{WorkingDir: "/x"}},
	})

	if report.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", report.Status)
	}
	if errors.GetCode(report.Err) != errors.ErrCodeValidationFailed {
		t.Errorf("expected VALIDATION_FAILED, got %v", report.Err)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0].Kind != resource.WorkingDirectoryConflict {
		t.Errorf("expected one working-directory conflict, got %v", report.Conflicts)
	}
	if compensated || report.Compensation != nil {
		t.Error("validation failure must not trigger compensation")
	}
	if len(report.Results) != 0 {
		t.Error("nothing may execute when validation fails")
	}
}

func TestRun_CycleIsStructuralFailure(t *testing.T) {
	r, err := NewRunner(testConfig(echoCapability))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(context.Background(), []graph.Task{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	})

	if errors.GetCode(report.Err) != errors.ErrCodeCycleDetected {
		t.Fatalf("expected CYCLE_DETECTED, got %v", report.Err)
	}
	if report.Compensation != nil {
		t.Error("structural failure must not trigger compensation")
	}
}

func TestRun_FailureCompensatesInReverseOrder(t *testing.T) {
	var order []string
	comp := func(name string) Compensation {
		return Compensation{
			Name: name,
			Run: func(ctx context.Context, report RunReport) error {
				order = append(order, name)
				return nil
			},
		}
	}

	cfg := testConfig(echoCapability)
	cfg.Compensations = []Compensation{comp("registered-first"), comp("registered-second")}
	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(context.Background(), []graph.Task{
		{ID: "ok", Work: "x"},
		{ID: "broken", Work: "fail", DependsOn: []string{"ok"}},
	})

	if report.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", report.Status)
	}
	if report.State != StateCompensated {
		t.Errorf("expected terminal state compensated, got %s", report.State)
	}
	if errors.GetCode(report.Err) != errors.ErrCodeExecutionFailed {
		t.Errorf("expected EXECUTION_FAILED as the primary error, got %v", report.Err)
	}
	if len(order) != 2 || order[0] != "registered-second" || order[1] != "registered-first" {
		t.Errorf("expected reverse registration order, got %v", order)
	}
	// Partial results survive the failure.
	if report.Results["ok"].Status != executor.StatusSucceeded {
		t.Errorf("expected partial results, got %+v", report.Results["ok"])
	}
}

func TestRun_CompensationFailureNeverMasksRunFailure(t *testing.T) {
	cfg := testConfig(echoCapability)
	cfg.Compensations = []Compensation{{
		Name: "flaky-cleanup",
		Run: func(ctx context.Context, report RunReport) error {
			return stderrors.New("cleanup rejected")
		},
	}}
	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(context.Background(), []graph.Task{{ID: "broken", Work: "fail"}})

	if errors.GetCode(report.Err) != errors.ErrCodeExecutionFailed {
		t.Fatalf("primary error must stay the run failure, got %v", report.Err)
	}
	if report.Compensation.Failures() != 1 {
		t.Errorf("expected 1 recorded compensation failure, got %d", report.Compensation.Failures())
	}
	if report.Compensation.Records[0].Status != saga.CompensationFailed {
		t.Errorf("expected failed record, got %+v", report.Compensation.Records[0])
	}
}

func TestRun_CancellationCompensatesLikeAnyFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var compensated bool
	capability := func(c context.Context, work any) (any, error) {
		cancel()
		return work, nil
	}

	cfg := testConfig(capability)
	cfg.Compensations = []Compensation{{
		Name: "discard-artifacts",
		Run: func(ctx context.Context, report RunReport) error {
			compensated = true
			return nil
		},
	}}
	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := r.Run(ctx, []graph.Task{
		{ID: "first"},
		{ID: "second", DependsOn: []string{"first"}},
	})

	if report.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", report.Status)
	}
	if errors.GetCode(report.Err) != errors.ErrCodeCancelled {
		t.Errorf("expected CANCELLED, got %v", report.Err)
	}
	if !compensated {
		t.Error("cancellation must trigger compensation like any failure")
	}
	if report.State != StateCompensated {
		t.Errorf("expected terminal state compensated, got %s", report.State)
	}
}

func TestNewRunner_RequiresCapability(t *testing.T) {
	if _, err := NewRunner(Config{}); errors.GetCode(err) != errors.ErrCodeMissingField {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
}
