package mutate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/svc/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateTripOptions struct {
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Places      []model.PlaceModel
	CreatorID   primitive.ObjectID
}

// CreateTrip inserts a new trip owned by the creator and links it to the
// creator's trip list.
func (m *Mutate) CreateTrip(ctx context.Context, opt CreateTripOptions) (model.TripModel, error) {
	now := time.Now()

	places := opt.Places
	if places == nil {
		places = []model.PlaceModel{}
	}

	for i := range places {
		if places[i].ID.IsZero() {
			places[i].ID = primitive.NewObjectID()
		}
	}

	trip := model.TripModel{
		ID:             primitive.NewObjectID(),
		Title:          opt.Title,
		Description:    opt.Description,
		StartDate:      opt.StartDate,
		EndDate:        opt.EndDate,
		Places:         places,
		CreatorID:      opt.CreatorID,
		SharedWith:     []primitive.ObjectID{},
		InvitationCode: randomCode(3),
		ShareCode:      randomCode(6),
		ActiveEditors:  0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := m.mongo.Collection(mongo.CollectionNameTrips).InsertOne(ctx, trip); err != nil {
		return model.TripModel{}, err
	}

	_, err := m.mongo.Collection(mongo.CollectionNameUsers).UpdateOne(ctx,
		bson.M{"_id": opt.CreatorID},
		bson.M{"$addToSet": bson.M{"trips": trip.ID}},
	)

	return trip, err
}

func randomCode(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)

	return hex.EncodeToString(b)
}
