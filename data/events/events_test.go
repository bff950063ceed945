package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/wanderplan/api/internal/svc/redis"
	"github.com/wanderplan/api/internal/testutil"
)

type captureDeliverer struct {
	delivered []Envelope
}

func (c *captureDeliverer) Deliver(e Envelope) {
	c.delivered = append(c.delivered, e)
}

type chanDeliverer struct {
	ch chan Envelope
}

func (c *chanDeliverer) Deliver(e Envelope) {
	c.ch <- e
}

// fakeBroker satisfies redis.Instance far enough to drive the subscription
// side of the relay; Subscribe hands back the channel Listen reads from.
type fakeBroker struct {
	sub chan<- string
}

func (f *fakeBroker) RawClient() goredis.UniversalClient { return nil }

func (f *fakeBroker) Ping(ctx context.Context) error { return nil }

func (f *fakeBroker) ComposeKey(parts ...string) redis.Key {
	return redis.Key(strings.Join(parts, ":"))
}

func (f *fakeBroker) Publish(ctx context.Context, key redis.Key, payload []byte) error {
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, ch chan<- string, keys ...redis.Key) {
	f.sub = ch
}

func (f *fakeBroker) Close() error { return nil }

func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	e, err := NewEnvelope("65af01d2b4e1f20001a3c001", EventTypeRealTimeStatus, RealTimeStatusPayload{
		TripID:  "65af01d2b4e1f20001a3c001",
		Enabled: true,
	})
	testutil.IsNil(t, err, "envelope builds")
	testutil.Assert(t, true, e.Timestamp > 0, "timestamp set")

	b, err := e.Encode()
	testutil.IsNil(t, err, "envelope encodes")

	decoded, err := DecodeEnvelope(b)
	testutil.IsNil(t, err, "envelope decodes")
	testutil.Assert(t, e.TripID, decoded.TripID, "trip id survives")
	testutil.Assert(t, e.Type, decoded.Type, "type survives")
	testutil.Assert(t, e.Timestamp, decoded.Timestamp, "timestamp survives")

	var payload RealTimeStatusPayload
	testutil.IsNil(t, json.Unmarshal(decoded.Data, &payload), "payload decodes")
	testutil.Assert(t, true, payload.Enabled, "payload survives")
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeEnvelope([]byte("not json"))
	testutil.IsNotNil(t, err, "garbage rejected")
}

func TestSingleInstanceModeDeliversLocally(t *testing.T) {
	t.Parallel()

	local := &captureDeliverer{}

	// No broker: every publish goes straight to this process's rooms.
	relay := NewPublisher(context.Background(), nil, local, nil)

	err := relay.Dispatch(context.Background(), "t1", EventTypeTripDeleted, TripDeletedPayload{TripID: "t1"})
	testutil.IsNil(t, err, "dispatch succeeds without broker")

	testutil.Assert(t, 1, len(local.delivered), "delivered locally")
	testutil.Assert(t, EventTypeTripDeleted, local.delivered[0].Type, "event type")
	testutil.Assert(t, "t1", local.delivered[0].TripID, "trip id")
}

func TestSingleInstanceModePreservesOrder(t *testing.T) {
	t.Parallel()

	local := &captureDeliverer{}
	relay := NewPublisher(context.Background(), nil, local, nil)

	for i := 0; i < 5; i++ {
		e, err := NewEnvelope("t1", EventTypeTripUpdated, map[string]int{"rev": i})
		testutil.IsNil(t, err, "envelope builds")
		testutil.IsNil(t, relay.Publish(context.Background(), e), "publish succeeds")
	}

	testutil.Assert(t, 5, len(local.delivered), "all delivered")

	for i, e := range local.delivered {
		var body map[string]int

		testutil.IsNil(t, json.Unmarshal(e.Data, &body), "payload decodes")
		testutil.Assert(t, i, body["rev"], "delivery order matches publish order")
	}
}

// An envelope published by another process arrives over the broker channel
// and must reach this process's rooms; garbage on the channel is skipped
// without killing the loop.
func TestListenRelaysBrokerEnvelopes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := &fakeBroker{}
	local := &chanDeliverer{ch: make(chan Envelope, 4)}

	Listen(ctx, broker, local)
	testutil.IsNotNil(t, broker.sub, "subscribed at startup")

	broker.sub <- "not an envelope"

	e, err := NewEnvelope("t1", EventTypeTripUpdated, map[string]string{"title": "Sintra"})
	testutil.IsNil(t, err, "envelope builds")

	b, err := e.Encode()
	testutil.IsNil(t, err, "envelope encodes")

	broker.sub <- string(b)

	select {
	case got := <-local.ch:
		testutil.Assert(t, "t1", got.TripID, "trip id")
		testutil.Assert(t, EventTypeTripUpdated, got.Type, "event type")
	case <-time.After(time.Second):
		t.Fatal("broker envelope never reached local rooms")
	}

	select {
	case <-local.ch:
		t.Fatal("garbage frame was delivered")
	default:
	}
}

func TestFailedEnvelopesPartialPipeline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	queued := make([]Envelope, 3)
	for i := range queued {
		queued[i] = Envelope{TripID: "t1", Type: EventTypeTripUpdated, Timestamp: int64(i)}
	}

	ok1 := goredis.NewIntCmd(ctx)
	bad := goredis.NewIntCmd(ctx)
	bad.SetErr(errors.New("broker closed the connection"))
	ok2 := goredis.NewIntCmd(ctx)

	// Only the envelope whose publish failed falls back; accepted ones
	// arrive through the subscription and must not double up.
	failed := failedEnvelopes(queued, []goredis.Cmder{ok1, bad, ok2})
	testutil.Assert(t, 1, len(failed), "one fallback")
	testutil.Assert(t, int64(1), failed[0].Timestamp, "the failed command's envelope")

	// A pipeline that never executed returns no usable results.
	failed = failedEnvelopes(queued, nil)
	testutil.Assert(t, 3, len(failed), "all fall back when nothing executed")
}
