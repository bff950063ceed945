package mutate

import (
	"context"
	"time"

	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EditTrip applies a content patch to the trip document and returns the
// post-update document. Set fields replace stored values wholesale; there is
// no merge of concurrent writers, the later persist wins.
func (m *Mutate) EditTrip(ctx context.Context, tripID primitive.ObjectID, patch model.TripPatch) (model.TripModel, error) {
	set := bson.M{
		"updated_at": time.Now(),
	}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}

	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}

	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}

	if patch.Places != nil {
		places := *patch.Places
		for i := range places {
			if places[i].ID.IsZero() {
				places[i].ID = primitive.NewObjectID()
			}
		}

		set["places"] = places
	}

	var trip model.TripModel

	err := m.mongo.Collection(mongo.CollectionNameTrips).FindOneAndUpdate(ctx,
		bson.M{"_id": tripID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&trip)

	return trip, err
}
