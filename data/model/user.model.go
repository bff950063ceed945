package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserModel struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`

	TripIDs []primitive.ObjectID `json:"trips" bson:"trips"`

	// TokenVersion invalidates outstanding JWTs when bumped.
	TokenVersion float64 `json:"-" bson:"token_version"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
