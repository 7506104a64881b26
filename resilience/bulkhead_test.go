package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 2})

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Fatalf("observed %d concurrent holders, ceiling is 2", peak)
	}
}

func TestBulkhead_TryAcquire(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})
	if err := b.TryAcquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.TryAcquire(); !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("expected ErrBulkheadFull, got %v", err)
	}
	b.Release()
	if err := b.TryAcquire(); err != nil {
		t.Fatalf("expected slot after release, got %v", err)
	}
}

func TestBulkhead_AcquireRespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := b.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBulkhead_Hooks(t *testing.T) {
	var acquired, released atomic.Int32
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 2,
		OnAcquire:     func(string) { acquired.Add(1) },
		OnRelease:     func(string) { released.Add(1) },
	})

	_ = b.Execute(context.Background(), func() error { return nil })
	if acquired.Load() != 1 || released.Load() != 1 {
		t.Fatalf("expected 1 acquire and 1 release, got %d/%d", acquired.Load(), released.Load())
	}
}

func TestBulkhead_InUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})
	_ = b.TryAcquire()
	_ = b.TryAcquire()
	if b.InUse() != 2 {
		t.Fatalf("expected 2 in use, got %d", b.InUse())
	}
	if b.MaxConcurrent() != 3 {
		t.Fatalf("expected ceiling 3, got %d", b.MaxConcurrent())
	}
}
