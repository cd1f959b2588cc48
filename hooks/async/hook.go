package asynchook

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/latestcell"
)

// Hooks decorates another latestcell.Hooks so that its callbacks run on
// worker goroutines instead of the producer's or a fetcher's. Events are
// dropped when the queue is full; Publish and Fetch never wait on hook
// consumers.
type Hooks struct {
	inner latestcell.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ latestcell.Hooks = (*Hooks)(nil)

func New(inner latestcell.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Published(seq uint64, size int) {
	h.try(func() { h.inner.Published(seq, size) })
}

func (h *Hooks) Installed(seq uint64, elapsed time.Duration) {
	h.try(func() { h.inner.Installed(seq, elapsed) })
}

func (h *Hooks) DecodeFailed(seq uint64, err error) {
	h.try(func() { h.inner.DecodeFailed(seq, err) })
}
