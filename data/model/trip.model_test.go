package model

import (
	"testing"

	"github.com/wanderplan/api/internal/testutil"
	"github.com/wanderplan/api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTripHasAccess(t *testing.T) {
	t.Parallel()

	creator := primitive.NewObjectID()
	collaborator := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	trip := TripModel{
		CreatorID:  creator,
		SharedWith: []primitive.ObjectID{collaborator},
	}

	testutil.Assert(t, true, trip.HasAccess(creator), "creator")
	testutil.Assert(t, true, trip.HasAccess(collaborator), "collaborator")
	testutil.Assert(t, false, trip.HasAccess(stranger), "stranger")
}

func TestTripPatchIsEmpty(t *testing.T) {
	t.Parallel()

	testutil.Assert(t, true, TripPatch{}.IsEmpty(), "zero patch")
	testutil.Assert(t, false, TripPatch{Title: utils.PointerOf("Madeira")}.IsEmpty(), "title set")
	testutil.Assert(t, false, TripPatch{Places: &[]PlaceModel{}}.IsEmpty(), "places cleared")
}
