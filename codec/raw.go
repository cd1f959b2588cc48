package codec

// Bytes is an identity decoder for []byte values. Decode returns the input
// unchanged. Useful when the consumer wants the raw payload and only needs
// the cell's generation handoff semantics.
type Bytes struct{}

func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String is a trivial decoder for Go string values. By convention this
// assumes UTF-8 and performs no validation.
type String struct{}

func (String) Decode(b []byte) (string, error) { return string(b), nil }
