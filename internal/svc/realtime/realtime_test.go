package realtime

import (
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestModeOf(t *testing.T) {
	t.Parallel()

	testutil.Assert(t, ModeDisabled, ModeOf(0), "no editors")
	testutil.Assert(t, ModeDisabled, ModeOf(1), "solo editor")
	testutil.Assert(t, ModeEnabled, ModeOf(2), "two editors")
	testutil.Assert(t, ModeEnabled, ModeOf(7), "many editors")
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		op      Op
		count   int32
		mode    Mode
		changed bool
	}{
		{"first editor arrives", OpIncrement, 1, ModeDisabled, false},
		{"second editor arrives", OpIncrement, 2, ModeEnabled, true},
		{"third editor arrives", OpIncrement, 3, ModeEnabled, false},
		{"third editor leaves", OpDecrement, 2, ModeEnabled, false},
		{"second editor leaves", OpDecrement, 1, ModeDisabled, true},
		{"last editor leaves", OpDecrement, 0, ModeDisabled, false},
		{"clamped decrement", OpDecrement, 0, ModeDisabled, false},
	}

	for _, c := range cases {
		mode, changed := Evaluate(c.op, c.count)

		testutil.Assert(t, c.mode, mode, c.name+": mode")
		testutil.Assert(t, c.changed, changed, c.name+": transition")
	}
}

type fakeEvents struct {
	dispatched []events.Envelope
}

func (f *fakeEvents) Publish(ctx context.Context, e events.Envelope) error {
	f.dispatched = append(f.dispatched, e)

	return nil
}

func (f *fakeEvents) Dispatch(ctx context.Context, tripID string, t events.EventType, data interface{}) error {
	e, err := events.NewEnvelope(tripID, t, data)
	if err != nil {
		return err
	}

	return f.Publish(ctx, e)
}

func TestNotifyOnlyOnTransition(t *testing.T) {
	t.Parallel()

	fake := &fakeEvents{}
	ctrl := New(Options{Events: fake})

	tripID := primitive.NewObjectID()
	ctx := context.Background()

	// One editor joins, then a second, then a third: one announcement.
	ctrl.Notify(ctx, tripID, OpIncrement, 1)
	ctrl.Notify(ctx, tripID, OpIncrement, 2)
	ctrl.Notify(ctx, tripID, OpIncrement, 3)

	testutil.Assert(t, 1, len(fake.dispatched), "announcements after three joins")
	testutil.Assert(t, events.EventTypeRealTimeStatus, fake.dispatched[0].Type, "event type")

	var payload events.RealTimeStatusPayload
	testutil.IsNil(t, json.Unmarshal(fake.dispatched[0].Data, &payload), "payload decodes")
	testutil.Assert(t, true, payload.Enabled, "enabled on upward crossing")
	testutil.Assert(t, tripID.Hex(), payload.TripID, "trip id")

	// Editors drain back to zero: exactly one disable announcement.
	ctrl.Notify(ctx, tripID, OpDecrement, 2)
	ctrl.Notify(ctx, tripID, OpDecrement, 1)
	ctrl.Notify(ctx, tripID, OpDecrement, 0)

	testutil.Assert(t, 2, len(fake.dispatched), "announcements after drain")

	testutil.IsNil(t, json.Unmarshal(fake.dispatched[1].Data, &payload), "payload decodes")
	testutil.Assert(t, false, payload.Enabled, "disabled on downward crossing")
}

func TestNotifyClampedDecrementIsSilent(t *testing.T) {
	t.Parallel()

	fake := &fakeEvents{}
	ctrl := New(Options{Events: fake})

	// A stray stop-editing against an idle trip clamps at zero and must
	// not announce anything.
	mode := ctrl.Notify(context.Background(), primitive.NewObjectID(), OpDecrement, 0)

	testutil.Assert(t, ModeDisabled, mode, "mode stays disabled")
	testutil.Assert(t, 0, len(fake.dispatched), "no announcement")
}
