package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	seq, p, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope error: %v", err)
	}
	return seq, p
}

func TestEnvelopeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		seq     uint64
		payload []byte
	}{
		{"empty", 0, []byte{}},
		{"small", 1, []byte("hello")},
		{"max_seq", math.MaxUint64, []byte{0x00, 0xFF, 0x10}},
		{"binary", 42, bytes.Repeat([]byte{0xAB}, 1024)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := EncodeEnvelope(tc.seq, tc.payload)
			seq, p := mustDecode(t, b)
			if seq != tc.seq {
				t.Fatalf("seq=%d want %d", seq, tc.seq)
			}
			if !bytes.Equal(p, tc.payload) {
				t.Fatalf("payload mismatch: got %d bytes want %d", len(p), len(tc.payload))
			}
		})
	}
}

func TestEnvelopeRejectsCorrupt(t *testing.T) {
	good := EncodeEnvelope(7, []byte("payload"))

	mutate := func(f func(b []byte) []byte) []byte {
		b := make([]byte, len(good))
		copy(b, good)
		return f(b)
	}

	cases := []struct {
		name string
		b    []byte
	}{
		{"nil", nil},
		{"short", good[:5]},
		{"header_only", good[:18]},
		{"bad_magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b })},
		{"bad_version", mutate(func(b []byte) []byte { b[4] = 99; return b })},
		{"bad_kind", mutate(func(b []byte) []byte { b[5] = 0; return b })},
		{"truncated_payload", good[:len(good)-3]},
		{"trailing_garbage", append(mutate(func(b []byte) []byte { return b }), 0xDE, 0xAD)},
		{"vlen_overruns", mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[14:18], math.MaxUint32)
			return b
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeEnvelope(tc.b); err != ErrCorrupt {
				t.Fatalf("err=%v want ErrCorrupt", err)
			}
		})
	}
}
