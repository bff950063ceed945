package query

import (
	"context"

	"github.com/patrickmn/go-cache"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserByID fetches a user, serving from a short-lived memory cache. Auth
// middleware hits this on every request and on every socket upgrade.
func (q *Query) UserByID(ctx context.Context, userID primitive.ObjectID) (model.UserModel, errors.APIError) {
	tag := "user:" + userID.Hex()

	if v, ok := q.c.Get(tag); ok {
		if user, ok := v.(model.UserModel); ok {
			return user, nil
		}
	}

	var user model.UserModel

	err := q.mongo.Collection(mongo.CollectionNameUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user, errors.ErrUnauthorized().SetDetail("Unknown User")
		}

		return user, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	q.c.Set(tag, user, cache.DefaultExpiration)

	return user, nil
}
