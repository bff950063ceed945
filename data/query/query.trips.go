package query

import (
	"context"

	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TripByID fetches a trip document. Always reads the store: trips are the
// live collaborative state and must not be served stale.
func (q *Query) TripByID(ctx context.Context, tripID primitive.ObjectID) (model.TripModel, errors.APIError) {
	var trip model.TripModel

	err := q.mongo.Collection(mongo.CollectionNameTrips).FindOne(ctx, bson.M{"_id": tripID}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return trip, errors.ErrUnknownTrip()
		}

		zap.S().Errorw("failed to fetch trip",
			"error", err,
			"trip_id", tripID.Hex(),
		)

		return trip, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return trip, nil
}

// TripsByUser lists trips the user created or was invited to, newest first.
func (q *Query) TripsByUser(ctx context.Context, userID primitive.ObjectID) ([]model.TripModel, errors.APIError) {
	cur, err := q.mongo.Collection(mongo.CollectionNameTrips).Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"creator_id": userID},
			bson.M{"shared_with": userID},
		},
	})
	if err != nil {
		zap.S().Errorw("failed to list trips",
			"error", err,
			"user_id", userID.Hex(),
		)

		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	trips := []model.TripModel{}

	if err = cur.All(ctx, &trips); err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return trips, nil
}
