package latestcell

import (
	"fmt"

	c "github.com/unkn0wn-root/latestcell/codec"
)

// DecodePolicy selects how concurrent first-time decode attempts for a
// generation are coordinated. Either policy yields at most one observable
// value per generation.
type DecodePolicy int

const (
	// PolicySingleFlight gives the first fetch that finds an undecoded
	// generation an exclusive decode claim; concurrent fetches of that
	// generation wait for it and share the result. One physical decode
	// per generation. This is the default.
	PolicySingleFlight DecodePolicy = iota

	// PolicyRace lets concurrent fetches each run the decoder and
	// installs exactly one result (first to finish wins; losers adopt
	// it). No fetch ever waits on another fetch, at the cost of
	// duplicate decode work under contention. Requires a pure decoder.
	PolicyRace
)

// Options tune a Cell. Only Decoder is required.
type Options[V any] struct {
	// Required
	Decoder c.Decoder[V]

	Policy DecodePolicy // default PolicySingleFlight
	Hooks  Hooks        // if nil, NopHooks is used
}

// New constructs an unpublished Cell. Every Fetch fails with
// ErrUnpublished until the producer's first Publish.
func New[V any](opts Options[V]) (*Cell[V], error) {
	if opts.Decoder == nil {
		return nil, fmt.Errorf("latestcell: decoder is required")
	}
	if opts.Policy != PolicySingleFlight && opts.Policy != PolicyRace {
		return nil, fmt.Errorf("latestcell: unknown decode policy %d", opts.Policy)
	}

	cl := &Cell[V]{
		dec:    opts.Decoder,
		policy: opts.Policy,
	}
	cl.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return cl, nil
}
