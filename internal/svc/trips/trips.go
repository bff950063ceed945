package trips

import (
	"context"

	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/svc/mongo"
	"github.com/wanderplan/api/internal/svc/realtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the slice of the mutation layer the coordinator needs.
// *mutate.Mutate satisfies it.
type Store interface {
	EditTrip(ctx context.Context, tripID primitive.ObjectID, patch model.TripPatch) (model.TripModel, error)
	DeleteTrip(ctx context.Context, tripID primitive.ObjectID, creatorID primitive.ObjectID) error
}

// Instance is the update coordinator. Every edit, whether it arrived over
// HTTP or a socket, is persisted here first and broadcast second; broadcast
// is an optimization gated on the real-time mode, not a correctness step.
type Instance interface {
	ApplyEdit(ctx context.Context, tripID primitive.ObjectID, patch model.TripPatch) (model.TripModel, errors.APIError)
	Delete(ctx context.Context, tripID primitive.ObjectID, creatorID primitive.ObjectID) errors.APIError
}

type Options struct {
	Store  Store
	Events events.Instance
}

type inst struct {
	store  Store
	events events.Instance
}

func New(opt Options) Instance {
	return &inst{
		store:  opt.Store,
		events: opt.Events,
	}
}

func (s *inst) ApplyEdit(ctx context.Context, tripID primitive.ObjectID, patch model.TripPatch) (model.TripModel, errors.APIError) {
	trip, err := s.store.EditTrip(ctx, tripID, patch)
	if err == mongo.ErrNoDocuments {
		return trip, errors.ErrUnknownTrip()
	}

	if err != nil {
		// One retry, then surface. The edit must not be silently lost.
		trip, err = s.store.EditTrip(ctx, tripID, patch)
	}

	if err == mongo.ErrNoDocuments {
		return trip, errors.ErrUnknownTrip()
	}

	if err != nil {
		zap.S().Errorw("failed to persist trip edit",
			"error", err,
			"trip_id", tripID.Hex(),
		)

		return trip, errors.ErrTripEditConflict().SetDetail(err.Error())
	}

	// Broadcast only while at least two editors are present. A solo editor
	// already sees their own state; there is no catch-up queue.
	if realtime.ModeOf(trip.ActiveEditors) == realtime.ModeEnabled {
		if err := s.events.Dispatch(ctx, trip.ID.Hex(), events.EventTypeTripUpdated, trip); err != nil {
			zap.S().Errorw("failed to dispatch trip update",
				"error", err,
				"trip_id", trip.ID.Hex(),
			)
		}
	}

	return trip, nil
}

func (s *inst) Delete(ctx context.Context, tripID primitive.ObjectID, creatorID primitive.ObjectID) errors.APIError {
	if err := s.store.DeleteTrip(ctx, tripID, creatorID); err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.ErrUnknownTrip()
		}

		zap.S().Errorw("failed to delete trip",
			"error", err,
			"trip_id", tripID.Hex(),
		)

		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	// Deletion is announced regardless of mode so viewers don't keep a
	// dead trip open.
	id := tripID.Hex()

	if err := s.events.Dispatch(ctx, id, events.EventTypeTripDeleted, events.TripDeletedPayload{TripID: id}); err != nil {
		zap.S().Errorw("failed to dispatch trip deletion",
			"error", err,
			"trip_id", id,
		)
	}

	return nil
}
