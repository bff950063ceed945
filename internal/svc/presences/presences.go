package presences

import (
	"context"

	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Instance is the presence counter: the number of clients in active edit
// state per trip. Both operations are single round-trip atomic mutations of
// the trip document's active_editors field and return the post-mutation
// value, so callers can feed the result straight into the mode controller
// without a second read.
type Instance interface {
	// Increment raises the trip's editor count by one.
	Increment(ctx context.Context, tripID primitive.ObjectID) (int32, error)
	// Decrement lowers the trip's editor count by one, clamping at zero.
	// Duplicate disconnect notifications are therefore harmless.
	Decrement(ctx context.Context, tripID primitive.ObjectID) (int32, error)
}

type Options struct {
	Mongo mongo.Instance
}

type inst struct {
	mongo mongo.Instance
}

func New(opt Options) Instance {
	return &inst{
		mongo: opt.Mongo,
	}
}

func (p *inst) Increment(ctx context.Context, tripID primitive.ObjectID) (int32, error) {
	return p.mutate(ctx, tripID, bson.M{
		"$inc": bson.M{"active_editors": 1},
	})
}

func (p *inst) Decrement(ctx context.Context, tripID primitive.ObjectID) (int32, error) {
	// Pipeline update so the floor at zero is applied inside the same
	// atomic write as the subtraction.
	return p.mutate(ctx, tripID, bson.A{bson.M{
		"$set": bson.M{"active_editors": bson.M{
			"$max": bson.A{0, bson.M{"$add": bson.A{"$active_editors", -1}}},
		}},
	}})
}

func (p *inst) mutate(ctx context.Context, tripID primitive.ObjectID, update interface{}) (int32, error) {
	count, err := p.doMutate(ctx, tripID, update)
	if err == nil {
		return count, nil
	}

	if err == mongo.ErrNoDocuments {
		return 0, err
	}

	// One retry. Presence drift is an accepted degraded state, but it must
	// be visible in the logs because it can leave real-time mode stuck.
	count, retryErr := p.doMutate(ctx, tripID, update)
	if retryErr != nil {
		zap.S().Warnw("presence counter mutation failed, counter may have drifted",
			"error", retryErr,
			"trip_id", tripID.Hex(),
		)

		return 0, retryErr
	}

	return count, nil
}

func (p *inst) doMutate(ctx context.Context, tripID primitive.ObjectID, update interface{}) (int32, error) {
	res := p.mongo.Collection(mongo.CollectionNameTrips).FindOneAndUpdate(ctx,
		bson.M{"_id": tripID},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"active_editors": 1}),
	)
	if err := res.Err(); err != nil {
		return 0, err
	}

	var doc struct {
		ActiveEditors int32 `bson:"active_editors"`
	}

	if err := res.Decode(&doc); err != nil {
		return 0, err
	}

	return doc.ActiveEditors, nil
}
