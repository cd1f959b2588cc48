package latestcell

import "time"

// Hooks are lightweight callbacks for high-signal cell events.
// Implementations MUST be cheap and non-blocking: Published runs on the
// producer's wait-free path, Installed and DecodeFailed run on the one
// fetch doing decode work. The filled-slot fast path never calls a hook.
type Hooks interface {
	// A new generation was installed as current.
	Published(seq uint64, size int)

	// The first successful decode of a generation finished and its
	// value was installed. elapsed covers the decode itself.
	Installed(seq uint64, elapsed time.Duration)

	// The decoder failed on a generation's payload. May fire more than
	// once per generation (failures are retryable).
	DecodeFailed(seq uint64, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Published(uint64, int)           {}
func (NopHooks) Installed(uint64, time.Duration) {}
func (NopHooks) DecodeFailed(uint64, error)      {}
