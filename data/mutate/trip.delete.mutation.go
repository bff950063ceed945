package mutate

import (
	"context"

	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeleteTrip removes the trip document and unlinks it from its creator.
func (m *Mutate) DeleteTrip(ctx context.Context, tripID primitive.ObjectID, creatorID primitive.ObjectID) error {
	res, err := m.mongo.Collection(mongo.CollectionNameTrips).DeleteOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = m.mongo.Collection(mongo.CollectionNameUsers).UpdateOne(ctx,
		bson.M{"_id": creatorID},
		bson.M{"$pull": bson.M{"trips": tripID}},
	)

	return err
}
