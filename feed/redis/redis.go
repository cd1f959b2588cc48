// Package redis drives a latestcell from Redis, the typical setup for
// hot-reloadable configuration shared by many replicas.
//
// A Producer writes each payload twice: SET on the value key (so replicas
// that subscribe late can seed immediately) and PUBLISH on the events
// channel (so live replicas pick it up without polling). Sequence numbers
// come from INCR on a sibling key, which keeps the logical producer
// monotonic across process restarts.
//
// Keys:
//
//	cell:<ns>         - latest enveloped payload
//	cell:<ns>:seq     - producer sequence counter
//	cell:<ns>:events  - pub/sub channel carrying enveloped payloads
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/latestcell"
	"github.com/unkn0wn-root/latestcell/internal/wire"
)

var ErrNilClient = errors.New("latestcell/feed/redis: nil client")

func valueKey(ns string) string   { return "cell:" + ns }
func seqKey(ns string) string     { return "cell:" + ns + ":seq" }
func eventsChan(ns string) string { return "cell:" + ns + ":events" }

// Producer publishes enveloped payloads for one namespace. It is subject
// to the same single-producer contract as the cell itself: at most one
// process may produce for a namespace at a time.
type Producer struct {
	rdb goredis.UniversalClient
	ns  string
	ttl time.Duration // optional TTL on value+seq keys; 0 disables expiry
}

// NewProducer creates a producer without TTL on its keys.
func NewProducer(client goredis.UniversalClient, namespace string) (*Producer, error) {
	return NewProducerWithTTL(client, namespace, 0)
}

// NewProducerWithTTL creates a producer whose value and seq keys expire
// after ttl. If ttl <= 0, keys do not expire. Expiry resets the sequence
// counter, which is safe only if all subscribers restart too.
func NewProducerWithTTL(client goredis.UniversalClient, namespace string, ttl time.Duration) (*Producer, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if namespace == "" {
		return nil, errors.New("latestcell/feed/redis: namespace is required")
	}
	return &Producer{rdb: client, ns: namespace, ttl: ttl}, nil
}

// Publish assigns the next sequence number via INCR, then pipelines the
// SET of the value key and the PUBLISH of the events channel in a single
// round-trip. Returns the assigned sequence number.
func (p *Producer) Publish(ctx context.Context, payload []byte) (uint64, error) {
	seq, err := p.rdb.Incr(ctx, seqKey(p.ns)).Result()
	if err != nil {
		return 0, err
	}

	env := wire.EncodeEnvelope(uint64(seq), payload)
	_, err = p.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, valueKey(p.ns), env, p.ttl)
		if p.ttl > 0 {
			pipe.Expire(ctx, seqKey(p.ns), p.ttl)
		}
		pipe.Publish(ctx, eventsChan(p.ns), env)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(seq), nil
}

// Sink receives payloads delivered by a Subscriber. *latestcell.Cell[V]
// satisfies it.
type Sink interface {
	Publish(blob []byte)
}

// SubscriberConfig wires a Subscriber. Client, Namespace and Sink are
// required.
type SubscriberConfig struct {
	Client      goredis.UniversalClient
	Namespace   string
	Sink        Sink
	Logger      latestcell.Logger // nil => NopLogger
	CloseClient bool              // set true only if this subscriber exclusively owns the client
}

// Subscriber seeds a Sink from the value key and then forwards every valid
// envelope arriving on the events channel. Run is the sole caller of
// Sink.Publish, which preserves the cell's single-producer precondition on
// this replica.
type Subscriber struct {
	rdb         goredis.UniversalClient
	ns          string
	sink        Sink
	log         latestcell.Logger
	closeClient bool

	// lastSeq is touched only by the Run goroutine.
	lastSeq uint64
}

func NewSubscriber(cfg SubscriberConfig) (*Subscriber, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Namespace == "" {
		return nil, errors.New("latestcell/feed/redis: namespace is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("latestcell/feed/redis: sink is required")
	}
	s := &Subscriber{
		rdb:         cfg.Client,
		ns:          cfg.Namespace,
		sink:        cfg.Sink,
		closeClient: cfg.CloseClient,
	}
	s.log = cfg.Logger
	if s.log == nil {
		s.log = latestcell.NopLogger{}
	}
	return s, nil
}

// Run blocks until ctx ends, delivering payloads to the sink as they
// arrive. Call it from exactly one goroutine per subscriber.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.rdb.Subscribe(ctx, eventsChan(s.ns))
	defer sub.Close()

	// Confirm the subscription before seeding, otherwise a publish
	// landing between GET and SUBSCRIBE would be lost.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	s.seed(ctx)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("latestcell/feed/redis: subscription closed")
			}
			s.deliver([]byte(msg.Payload))
		}
	}
}

// Close releases the client if the subscriber owns it.
func (s *Subscriber) Close(_ context.Context) error {
	if s.closeClient {
		return s.rdb.Close()
	}
	return nil
}

func (s *Subscriber) seed(ctx context.Context) {
	env, err := s.rdb.Get(ctx, valueKey(s.ns)).Bytes()
	if err == goredis.Nil {
		return // nothing published yet
	}
	if err != nil {
		s.log.Warn("seed read failed; waiting for live events", latestcell.Fields{"ns": s.ns, "err": err})
		return
	}
	s.deliver(env)
}

func (s *Subscriber) deliver(env []byte) {
	seq, payload, err := wire.DecodeEnvelope(env)
	if err != nil {
		s.log.Warn("dropping corrupt envelope", latestcell.Fields{"ns": s.ns, "err": err})
		return
	}
	// Sequence regressions (redelivery after reconnect, a stale seed
	// racing a live event) must not reach the cell: its readers are
	// promised monotonic generations.
	if seq <= s.lastSeq {
		s.log.Debug("dropping stale envelope", latestcell.Fields{"ns": s.ns, "seq": seq, "last": s.lastSeq})
		return
	}
	s.lastSeq = seq
	s.sink.Publish(payload)
	s.log.Debug("delivered payload", latestcell.Fields{"ns": s.ns, "seq": seq, "bytes": len(payload)})
}
