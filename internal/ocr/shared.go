package ocr

import (
	"errors"
	"sync"
)

// SharedEngine serializes access to one lazily built engine. A failed build
// is not remembered; the next call tries again.
type SharedEngine struct {
	factory Factory

	mu     sync.Mutex
	engine Engine
}

// NewSharedEngine returns a SharedEngine that builds its engine on first use.
func NewSharedEngine(factory Factory) *SharedEngine {
	return &SharedEngine{factory: factory}
}

// Recognize builds the engine if needed and runs it under the lock.
func (s *SharedEngine) Recognize(raster []byte, opts Options) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		e, err := s.factory()
		if err != nil {
			return "", err
		}
		s.engine = e
	}
	return s.engine.Recognize(raster, opts)
}

// Close closes the engine if it was built.
func (s *SharedEngine) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return nil
	}
	err := s.engine.Close()
	s.engine = nil
	return err
}

// Resources holds the engines shared across extractions: a pool of
// classical engines and one neural engine.
type Resources struct {
	Classical *Pool
	Neural    *SharedEngine
}

// NewResources builds the classical pool eagerly and the neural engine
// lazily.
func NewResources(poolSize int, classical, neural Factory, opts ...PoolOption) (*Resources, error) {
	pool, err := NewPool(poolSize, classical, opts...)
	if err != nil {
		return nil, err
	}
	return &Resources{
		Classical: pool,
		Neural:    NewSharedEngine(neural),
	}, nil
}

// Close releases both engines.
func (r *Resources) Close() error {
	return errors.Join(r.Classical.Close(), r.Neural.Close())
}

var (
	sharedMu  sync.Mutex
	sharedRes *Resources
)

// SharedResources returns the process-wide Resources, calling build the
// first time. A failed build is returned and retried on the next call.
func SharedResources(build func() (*Resources, error)) (*Resources, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedRes != nil {
		return sharedRes, nil
	}
	res, err := build()
	if err != nil {
		return nil, err
	}
	sharedRes = res
	return res, nil
}

// ResetShared closes and forgets the process-wide Resources.
func ResetShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedRes == nil {
		return nil
	}
	err := sharedRes.Close()
	sharedRes = nil
	return err
}
