package resilience

import (
	"context"
	"errors"
)

// ErrBulkheadFull is returned by TryAcquire when no slot is available.
var ErrBulkheadFull = errors.New("bulkhead is full")

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead for logging.
	Name string
	// MaxConcurrent is the maximum number of concurrent holders.
	MaxConcurrent int
	// OnAcquire is called when a slot is acquired.
	OnAcquire func(name string)
	// OnRelease is called when a slot is released.
	OnRelease func(name string)
}

// Bulkhead bounds how many tasks hold a slot at once. The scheduler
// acquires a slot before dispatching a task and releases it on completion,
// so the logical concurrency ceiling holds regardless of worker count.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire blocks until a slot is free or the context is done.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		if b.config.OnAcquire != nil {
			b.config.OnAcquire(b.config.Name)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot without waiting, or returns ErrBulkheadFull.
func (b *Bulkhead) TryAcquire() error {
	select {
	case b.sem <- struct{}{}:
		if b.config.OnAcquire != nil {
			b.config.OnAcquire(b.config.Name)
		}
		return nil
	default:
		return ErrBulkheadFull
	}
}

// Release returns a slot to the bulkhead.
func (b *Bulkhead) Release() {
	<-b.sem
	if b.config.OnRelease != nil {
		b.config.OnRelease(b.config.Name)
	}
}

// Execute runs fn while holding a slot, waiting for one if necessary.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()
	return fn()
}

// InUse returns the number of slots currently held.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the ceiling.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
