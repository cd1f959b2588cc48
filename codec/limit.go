package codec

import "fmt"

// Limit wraps another decoder to enforce a maximum allowed payload size.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized/malicious payloads arriving over
// a shared transport (e.g. the Redis feed) before any real decode work.
type Limit[V any] struct {
	// Inner is the underlying decoder being wrapped. It must be set.
	Inner Decoder[V]
	// MaxDecode is the maximum permitted length (in bytes) of the
	// payload. If exceeded, Decode returns an error without invoking
	// Inner.
	MaxDecode int
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
