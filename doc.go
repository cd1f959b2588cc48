// Package latestcell implements a single-producer/multi-consumer handoff
// cell that carries an opaque encoded payload and lazily materializes a
// decoded value from it, sharing that value across all readers.
//
// The producer calls Publish at any rate; readers call Fetch and get "the
// current decoded value". Publish is wait-free. Fetch is wait-free against
// the producer, and against other fetches except in one narrow window: the
// fetch that first discovers an undecoded generation may hold up concurrent
// fetches of that same generation until decoding completes (single-flight
// policy). Once any fetch has returned a value for the latest generation,
// all further fetches read a filled slot without blocking.
//
// Components:
//   - Cell[V]: the primitive. One atomically swapped generation
//     (payload + decoded slot) is the cell's only mutable state.
//   - codec.Decoder[V]: turns payload bytes into a V. Pluggable
//     (JSON, Msgpack, CBOR, Protobuf, raw bytes).
//   - feed/redis: optional transport that drives a cell from a Redis
//     key + pub/sub channel, for hot-reloadable configuration.
//
// Consistency: reads are monotonic. Once a reader has observed a value
// derived from generation G it never observes an older generation, nor the
// initial unpublished state. If the producer stops publishing, every reader
// eventually returns the value decoded from the final payload. Across any
// execution with k publishes, fetches return at most k distinct values.
//
// Decode failures are returned to the caller and never cached against the
// generation: the next fetch on the same generation retries, and a later
// publish of a well-formed payload fully recovers the cell.
package latestcell
