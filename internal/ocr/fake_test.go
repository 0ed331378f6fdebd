package ocr

import (
	"errors"
	"sync"
	"sync/atomic"
)

// fakeEngine records concurrent use and returns canned text.
type fakeEngine struct {
	id     int
	text   string
	err    error
	busy   atomic.Int32
	shared *atomic.Int32 // set when two goroutines overlap on one engine

	mu     sync.Mutex
	calls  int
	closed bool
}

func (f *fakeEngine) Recognize(raster []byte, opts Options) (string, error) {
	if f.busy.Add(1) > 1 && f.shared != nil {
		f.shared.Add(1)
	}
	defer f.busy.Add(-1)

	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeFactory hands out fakeEngines and remembers them.
type fakeFactory struct {
	mu      sync.Mutex
	built   []*fakeEngine
	failAt  int // 1-based build number that fails; 0 never fails
	overlap atomic.Int32
}

var errFakeBuild = errors.New("fake build failure")

func (ff *fakeFactory) factory() Factory {
	return func() (Engine, error) {
		ff.mu.Lock()
		defer ff.mu.Unlock()
		if ff.failAt > 0 && len(ff.built)+1 == ff.failAt {
			ff.failAt = 0
			return nil, errFakeBuild
		}
		e := &fakeEngine{id: len(ff.built), text: "ok", shared: &ff.overlap}
		ff.built = append(ff.built, e)
		return e, nil
	}
}
