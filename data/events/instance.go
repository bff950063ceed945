package events

import (
	"context"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wanderplan/api/internal/svc/redis"
	"go.uber.org/zap"
)

// LocalDeliverer receives envelopes destined for rooms on this process. The
// socket gateway implements it.
type LocalDeliverer interface {
	Deliver(e Envelope)
}

// Instance is the cross-instance relay. Publish enqueues an envelope for the
// shared broker channel; every process listens on that channel and re-emits
// into its local rooms. When the broker is unreachable the relay degrades to
// local-only delivery rather than failing the operation that published.
type Instance interface {
	Publish(ctx context.Context, e Envelope) error
	Dispatch(ctx context.Context, tripID string, t EventType, data interface{}) error
}

type eventsInst struct {
	ctx       context.Context
	redis     redis.Instance
	local     LocalDeliverer
	published prometheus.Counter

	mx    sync.Mutex
	queue []Envelope
}

// NewPublisher starts the relay's publish loop. Queued envelopes are flushed
// to the broker in order on a short tick, preserving per-trip publish order
// from this process. A nil redis instance places the relay permanently in
// single-instance mode. published may be nil.
func NewPublisher(ctx context.Context, rdis redis.Instance, local LocalDeliverer, published prometheus.Counter) Instance {
	inst := &eventsInst{
		ctx:       ctx,
		redis:     rdis,
		local:     local,
		published: published,
	}

	if rdis == nil {
		zap.S().Warnw("event relay running in single-instance mode, no broker configured")

		return inst
	}

	ticker := time.NewTicker(50 * time.Millisecond)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				inst.flush()
			}
		}
	}()

	return inst
}

func (inst *eventsInst) flush() {
	inst.mx.Lock()
	items := inst.queue
	inst.queue = nil
	inst.mx.Unlock()

	if len(items) == 0 {
		return
	}

	p := inst.redis.RawClient().Pipeline()

	key := inst.redis.ComposeKey("events", "trips")

	// queued runs parallel to the pipeline's commands so a partial failure
	// can be mapped back to the envelopes that never reached the broker.
	queued := make([]Envelope, 0, len(items))

	for _, e := range items {
		b, err := e.Encode()
		if err != nil {
			zap.S().Errorw("failed to encode envelope",
				"error", err,
				"trip_id", e.TripID,
			)

			continue
		}

		queued = append(queued, e)
		p.Publish(inst.ctx, key.String(), b)
	}

	cmds, err := p.Exec(inst.ctx)
	if err == nil {
		return
	}

	// Broker outage: fall back to delivering to this process's own rooms
	// so a single-instance deployment keeps working. Only envelopes whose
	// publish failed fall back; ones the broker accepted will arrive
	// through the subscription and must not be delivered twice.
	failed := failedEnvelopes(queued, cmds)

	zap.S().Warnw("broker publish failed, degrading to local delivery",
		"error", err,
		"count", len(failed),
	)

	for _, e := range failed {
		inst.local.Deliver(e)
	}
}

// failedEnvelopes maps pipeline results back to the envelopes whose publish
// did not reach the broker. A length mismatch means the pipeline never
// executed at all; everything falls back.
func failedEnvelopes(queued []Envelope, cmds []goredis.Cmder) []Envelope {
	if len(cmds) != len(queued) {
		return queued
	}

	failed := make([]Envelope, 0, len(queued))

	for i, cmd := range cmds {
		if cmd.Err() != nil {
			failed = append(failed, queued[i])
		}
	}

	return failed
}

func (inst *eventsInst) Publish(ctx context.Context, e Envelope) error {
	if inst.published != nil {
		inst.published.Inc()
	}

	if inst.redis == nil {
		inst.local.Deliver(e)

		return nil
	}

	inst.mx.Lock()
	inst.queue = append(inst.queue, e)
	inst.mx.Unlock()

	return nil
}

func (inst *eventsInst) Dispatch(ctx context.Context, tripID string, t EventType, data interface{}) error {
	e, err := NewEnvelope(tripID, t, data)
	if err != nil {
		return err
	}

	return inst.Publish(ctx, e)
}

// Listen subscribes this process to the shared broker channel and re-emits
// every received envelope into the local gateway. Envelopes for trips with no
// local subscribers are dropped by the gateway; that is expected.
func Listen(ctx context.Context, rdis redis.Instance, local LocalDeliverer) {
	if rdis == nil {
		return
	}

	ch := make(chan string, 1024)

	rdis.Subscribe(ctx, ch, rdis.ComposeKey("events", "trips"))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-ch:
				e, err := DecodeEnvelope([]byte(s))
				if err != nil {
					zap.S().Errorw("invalid envelope on broker channel",
						"error", err,
					)

					continue
				}

				local.Deliver(e)
			}
		}
	}()
}
