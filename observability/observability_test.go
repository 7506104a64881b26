package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartSpan_NoProvider(t *testing.T) {
	// Without an initialized provider the global tracer is a no-op;
	// span helpers must still be safe to call.
	ctx, span := StartSpan(context.Background(), SpanTaskRun)
	defer span.End()

	SetSpanAttribute(ctx, AttrTaskID, "build")
	SetSpanAttribute(ctx, AttrAttempts, 2)
	SetSpanAttribute(ctx, "flag", true)
	SetSpanError(ctx, errors.New("boom"))
}

func TestNewMetrics_NoopMeter(t *testing.T) {
	metrics, err := NewMetrics(Meter("flowkit-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	metrics.RecordTaskStart(ctx)
	metrics.RecordTaskEnd(ctx, "build", "ok", 10*time.Millisecond)
	metrics.RecordOperation(ctx, "run", "run.schedule", "ok", time.Millisecond)
	metrics.RecordError(ctx, "execute", "build")
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("svc")
	if tc.SampleRate != 1.0 || tc.Endpoint == "" {
		t.Errorf("unexpected tracer defaults: %+v", tc)
	}
	mc := DefaultMeterConfig("svc")
	if mc.Interval != 15*time.Second {
		t.Errorf("unexpected meter defaults: %+v", mc)
	}
}
