// Package codec provides decoders that turn opaque payload bytes into
// typed values for latestcell.
//
// A Decoder must be a pure function of its input: the cell's race policy
// may invoke it more than once for the same bytes, and only one result is
// kept. Decoders must not depend on invocation count or ordering.
package codec

// Decoder decodes a []byte payload into a value V.
type Decoder[V any] interface {
	Decode([]byte) (V, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc[V any] func([]byte) (V, error)

func (f DecoderFunc[V]) Decode(b []byte) (V, error) { return f(b) }
