package latestcell

import (
	"sync"
	"sync/atomic"
	"time"

	c "github.com/unkn0wn-root/latestcell/codec"
)

// generation is one immutable (seq, payload) pairing produced by a single
// Publish call, plus the slot its decoded value is installed into.
//
// blob never changes after construction. slot transitions empty->filled at
// most once; a decode failure leaves it empty so the next caller retries.
// mu is the decode claim for PolicySingleFlight and is never held while the
// slot is filled, so readers on the fast path never touch it.
type generation[V any] struct {
	seq  uint64
	blob []byte

	mu   sync.Mutex
	slot atomic.Pointer[V]
}

// Cell conveys an encoded payload from one producer goroutine to
// arbitrarily many consumer goroutines and shares the lazily decoded value
// between them. The zero value is not usable; construct with New.
//
// The current-generation pointer is the cell's only mutable state. The
// producer is its sole writer, so readers can never observe it moving
// backward and a fetch racing a publish never blocks outside the decode
// window.
type Cell[V any] struct {
	cur atomic.Pointer[generation[V]]

	dec    c.Decoder[V]
	policy DecodePolicy
	hooks  Hooks

	// seq is owned by the producer. Publish must not be called
	// concurrently with itself, so no atomics are needed here.
	seq uint64
}

// Publish installs blob as the current generation. Producer-only: it must
// never be called concurrently with itself.
//
// Publish is wait-free: one allocation and one atomic store, regardless of
// how many fetches are in flight or how far along they are. It performs no
// decoding and never waits on readers. The release store makes blob fully
// visible to any reader that observes the new generation. The previous
// generation becomes collectable once the last in-flight fetch holding it
// returns.
//
// The cell retains blob; the caller must not mutate it afterwards.
func (cl *Cell[V]) Publish(blob []byte) {
	cl.seq++
	g := &generation[V]{seq: cl.seq, blob: blob}
	cl.cur.Store(g)
	cl.hooks.Published(g.seq, len(blob))
}

// Fetch returns the decoded value of the most recent generation visible to
// this call. Callable from any number of goroutines.
//
// Before the first Publish it returns ErrUnpublished. If decoding the
// current payload fails it returns a *DecodeError; the failure is not
// cached, so a later Fetch on the same generation retries.
//
// Once any fetch has installed the value for a generation, every Fetch of
// that generation is a pair of atomic loads.
func (cl *Cell[V]) Fetch() (V, error) {
	g := cl.cur.Load()
	if g == nil {
		var zero V
		return zero, ErrUnpublished
	}
	if p := g.slot.Load(); p != nil {
		return *p, nil
	}
	if cl.policy == PolicyRace {
		return cl.decodeRace(g)
	}
	return cl.decodeSingleFlight(g)
}

// decodeSingleFlight claims the exclusive decode right for g via its
// mutex. Concurrent fetches of the same undecoded generation wait for the
// claim holder; fetches of other generations (and other cells) are
// unaffected.
func (cl *Cell[V]) decodeSingleFlight(g *generation[V]) (V, error) {
	g.mu.Lock()
	// Re-check under the claim: a racing fetch may have filled the slot
	// while we waited.
	if p := g.slot.Load(); p != nil {
		g.mu.Unlock()
		return *p, nil
	}
	start := time.Now()
	v, err := cl.dec.Decode(g.blob)
	if err != nil {
		// Release the claim without filling the slot; the next
		// fetch on this generation retries.
		g.mu.Unlock()
		cl.hooks.DecodeFailed(g.seq, err)
		var zero V
		return zero, &DecodeError{Seq: g.seq, Cause: err}
	}
	g.slot.Store(&v)
	g.mu.Unlock()
	cl.hooks.Installed(g.seq, time.Since(start))
	return v, nil
}

// decodeRace decodes without taking any lock. Several fetches may each run
// the decoder for the same generation; compare-and-swap installs exactly
// one result and the losers adopt it. Requires the decoder to be a pure
// function of its input.
func (cl *Cell[V]) decodeRace(g *generation[V]) (V, error) {
	start := time.Now()
	v, err := cl.dec.Decode(g.blob)
	if err != nil {
		// A concurrent racer may have succeeded meanwhile.
		if p := g.slot.Load(); p != nil {
			return *p, nil
		}
		cl.hooks.DecodeFailed(g.seq, err)
		var zero V
		return zero, &DecodeError{Seq: g.seq, Cause: err}
	}
	if g.slot.CompareAndSwap(nil, &v) {
		cl.hooks.Installed(g.seq, time.Since(start))
	}
	return *g.slot.Load(), nil
}

// Peek returns the current generation's decoded value only if some fetch
// has already installed it. It never decodes and never blocks, making it
// safe on paths that prefer "no value yet" over waiting out the decode
// window.
func (cl *Cell[V]) Peek() (V, bool) {
	if g := cl.cur.Load(); g != nil {
		if p := g.slot.Load(); p != nil {
			return *p, true
		}
	}
	var zero V
	return zero, false
}

// Seq returns the sequence number of the current generation, or 0 if
// nothing has been published. Sequence numbers start at 1 and increase by
// one per Publish, giving callers an observable generation identity.
func (cl *Cell[V]) Seq() uint64 {
	if g := cl.cur.Load(); g != nil {
		return g.seq
	}
	return 0
}
