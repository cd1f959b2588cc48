// Package wire frames payloads carried by a feed transport. The envelope
// lets a subscriber reject foreign or truncated bytes before they ever
// reach a cell, and carries the producer's sequence number so regressions
// (redelivery, out-of-order fan-in) can be dropped at the edge.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version     byte = 1
	kindPayload byte = 1
)

var (
	ErrCorrupt = errors.New("latestcell: corrupt envelope")
	magic4     = [...]byte{'L', 'V', 'C', 'E'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Envelope: magic(4) | ver(1) | kind(1) | seq(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeEnvelope(seq uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindPayload)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], seq)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeEnvelope(b []byte) (seq uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindPayload {
		return 0, nil, ErrCorrupt
	}

	off := 6

	seq = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact-length check; trailing bytes are corruption
		return 0, nil, ErrCorrupt
	}

	return seq, b[off : off+vlen], nil
}
