package trips

import (
	"context"
	"testing"

	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/svc/mongo"
	"github.com/wanderplan/api/internal/testutil"
	"github.com/wanderplan/api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	trip  model.TripModel
	err   error
	edits int
}

func (f *fakeStore) EditTrip(ctx context.Context, tripID primitive.ObjectID, patch model.TripPatch) (model.TripModel, error) {
	f.edits++

	return f.trip, f.err
}

func (f *fakeStore) DeleteTrip(ctx context.Context, tripID primitive.ObjectID, creatorID primitive.ObjectID) error {
	return f.err
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

func patchTitle(s string) model.TripPatch {
	return model.TripPatch{Title: utils.PointerOf(s)}
}

func TestApplyEditBroadcastsWhenEnabled(t *testing.T) {
	t.Parallel()

	tripID := primitive.NewObjectID()
	store := &fakeStore{trip: model.TripModel{ID: tripID, ActiveEditors: 2}}
	ev := &fakeEvents{}

	coord := New(Options{Store: store, Events: ev})

	trip, apiErr := coord.ApplyEdit(context.Background(), tripID, patchTitle("Lisbon"))
	testutil.IsNil(t, apiErr, "edit succeeds")
	testutil.Assert(t, tripID, trip.ID, "persisted trip returned")

	testutil.Assert(t, 1, len(ev.dispatched), "broadcast with two editors")
	testutil.Assert(t, events.EventTypeTripUpdated, ev.dispatched[0].Type, "event type")
	testutil.Assert(t, tripID.Hex(), ev.dispatched[0].TripID, "room key")
}

func TestApplyEditPersistsWithoutBroadcast(t *testing.T) {
	t.Parallel()

	tripID := primitive.NewObjectID()
	store := &fakeStore{trip: model.TripModel{ID: tripID, ActiveEditors: 1}}
	ev := &fakeEvents{}

	coord := New(Options{Store: store, Events: ev})

	// A solo editor's change is persisted but never broadcast.
	_, apiErr := coord.ApplyEdit(context.Background(), tripID, patchTitle("Porto"))
	testutil.IsNil(t, apiErr, "edit succeeds")
	testutil.Assert(t, 1, store.edits, "persisted exactly once")
	testutil.Assert(t, 0, len(ev.dispatched), "no broadcast below threshold")
}

func TestApplyEditUnknownTrip(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: mongo.ErrNoDocuments}
	coord := New(Options{Store: store, Events: &fakeEvents{}})

	_, apiErr := coord.ApplyEdit(context.Background(), primitive.NewObjectID(), patchTitle("x"))
	testutil.IsNotNil(t, apiErr, "missing trip surfaces")
	testutil.Assert(t, 20404, apiErr.Code(), "unknown trip code")
	testutil.Assert(t, 1, store.edits, "no retry on a missing document")
}

func TestDeleteAlwaysBroadcasts(t *testing.T) {
	t.Parallel()

	tripID := primitive.NewObjectID()
	ev := &fakeEvents{}
	coord := New(Options{Store: &fakeStore{}, Events: ev})

	apiErr := coord.Delete(context.Background(), tripID, primitive.NewObjectID())
	testutil.IsNil(t, apiErr, "delete succeeds")

	// Deletion is announced regardless of the real-time mode.
	testutil.Assert(t, 1, len(ev.dispatched), "deletion announced")
	testutil.Assert(t, events.EventTypeTripDeleted, ev.dispatched[0].Type, "event type")
}

func TestDeleteUnknownTrip(t *testing.T) {
	t.Parallel()

	ev := &fakeEvents{}
	coord := New(Options{Store: &fakeStore{err: mongo.ErrNoDocuments}, Events: ev})

	apiErr := coord.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	testutil.IsNotNil(t, apiErr, "missing trip surfaces")
	testutil.Assert(t, 0, len(ev.dispatched), "nothing announced for a failed delete")
}
