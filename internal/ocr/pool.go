package ocr

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// MaxDefaultPoolSize caps DefaultPoolSize.
const MaxDefaultPoolSize = 4

// DefaultPoolSize returns min(NumCPU, MaxDefaultPoolSize).
func DefaultPoolSize() int {
	return min(runtime.NumCPU(), MaxDefaultPoolSize)
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWaitObserver reports how long each Acquire blocked.
func WithWaitObserver(fn func(time.Duration)) PoolOption {
	return func(p *Pool) {
		p.observeWait = fn
	}
}

// Pool is a fixed set of pre-initialized engines. Each checkout is
// exclusive: an engine is never used by two goroutines at once.
type Pool struct {
	engines     chan Engine
	all         []Engine
	observeWait func(time.Duration)

	mu     sync.RWMutex
	closed bool
}

// NewPool builds size engines up front. If any engine fails to build, the
// ones already built are closed and the error is returned.
func NewPool(size int, factory Factory, opts ...PoolOption) (*Pool, error) {
	if size <= 0 {
		size = DefaultPoolSize()
	}

	p := &Pool{
		engines: make(chan Engine, size),
		all:     make([]Engine, 0, size),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		e, err := factory()
		if err != nil {
			for _, built := range p.all {
				built.Close()
			}
			return nil, fmt.Errorf("failed to build engine %d of %d: %w", i+1, size, err)
		}
		p.all = append(p.all, e)
		p.engines <- e
	}
	return p, nil
}

// Size returns the number of engines in the pool.
func (p *Pool) Size() int {
	return len(p.all)
}

// Acquire blocks until an engine is free. Every successful Acquire must be
// paired with Release; prefer With.
func (p *Pool) Acquire() (Engine, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrPoolClosed
	}

	start := time.Now()
	e, ok := <-p.engines
	if p.observeWait != nil {
		p.observeWait(time.Since(start))
	}
	if !ok {
		return nil, ErrPoolClosed
	}
	return e, nil
}

// Release returns an engine to the pool.
func (p *Pool) Release(e Engine) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.engines <- e
}

// With checks out an engine for the duration of fn. The engine goes back to
// the pool however fn exits, including by panic.
func (p *Pool) With(fn func(Engine) error) error {
	e, err := p.Acquire()
	if err != nil {
		return err
	}
	defer p.Release(e)
	return fn(e)
}

// Recognize checks out an engine for one call.
func (p *Pool) Recognize(raster []byte, opts Options) (string, error) {
	var text string
	err := p.With(func(e Engine) error {
		var err error
		text, err = e.Recognize(raster, opts)
		return err
	})
	return text, err
}

// Close closes every engine. Callers must not hold checked-out engines.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.engines)
	p.mu.Unlock()

	var errs []error
	for _, e := range p.all {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
