package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripModel is the shared itinerary document. The content payload (title,
// description, dates, places) is owned by whoever wrote it last; there is no
// field-level merge of concurrent edits.
type TripModel struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	StartDate   *time.Time           `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time           `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Places      []PlaceModel         `json:"places" bson:"places"`
	CreatorID   primitive.ObjectID   `json:"creator_id" bson:"creator_id"`
	SharedWith  []primitive.ObjectID `json:"shared_with" bson:"shared_with"`

	InvitationCode string `json:"invitation_code,omitempty" bson:"invitation_code"`
	ShareCode      string `json:"share_code,omitempty" bson:"share_code"`

	// ActiveEditors is mutated only through the presence counter's
	// atomic increment/decrement. Never written directly.
	ActiveEditors int32 `json:"active_editors" bson:"active_editors"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasAccess reports whether the user is the creator or a collaborator.
func (t TripModel) HasAccess(userID primitive.ObjectID) bool {
	if t.CreatorID == userID {
		return true
	}

	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}

	return false
}

type PlaceModel struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Date      time.Time          `json:"date" bson:"date"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
}

// TripPatch is the writable subset of a trip accepted by the update
// coordinator. Nil fields are left untouched; set fields replace the stored
// value wholesale (last writer wins).
type TripPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Places      *[]PlaceModel `json:"places,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p TripPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil && p.Places == nil
}
