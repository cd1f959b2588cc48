package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/latestcell"
)

type Options struct {
	// Sampling to avoid floods on repeated decode failures; 0/1 = log all.
	DecodeFailedEvery uint64
	// PublishedEvery samples the (potentially very chatty) publish
	// events; 0/1 = log all.
	PublishedEvery uint64
}

// Hooks logs cell events through slog. A decode failure on a still-current
// generation is retried by every subsequent fetch, so DecodeFailed can fire
// at the full fetch rate; sample it in read-heavy deployments.
type Hooks struct {
	l    *slog.Logger
	opts Options

	decodeFailedCtr atomic.Uint64
	publishedCtr    atomic.Uint64
}

var _ latestcell.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Published(seq uint64, size int) {
	if h.l == nil || !sample(h.opts.PublishedEvery, &h.publishedCtr) {
		return
	}
	h.l.Debug("latestcell.published",
		"seq", seq,
		"bytes", size)
}

func (h *Hooks) Installed(seq uint64, elapsed time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Debug("latestcell.installed",
		"seq", seq,
		"decode_ms", elapsed.Milliseconds())
}

func (h *Hooks) DecodeFailed(seq uint64, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeFailedCtr) {
		return
	}
	h.l.Warn("latestcell.decode_failed",
		"seq", seq,
		"err", err)
}
