package sockets

import (
	"testing"

	"github.com/wanderplan/api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseTripID(t *testing.T) {
	t.Parallel()

	want := primitive.NewObjectID()

	// Bare string payload.
	id, key, apiErr := parseTripID([]byte(`"` + want.Hex() + `"`))
	testutil.IsNil(t, apiErr, "bare string accepted")
	testutil.Assert(t, want, id, "object id parsed")
	testutil.Assert(t, want.Hex(), key, "room key")

	// Object payload.
	id, _, apiErr = parseTripID([]byte(`{"trip_id":"` + want.Hex() + `"}`))
	testutil.IsNil(t, apiErr, "object accepted")
	testutil.Assert(t, want, id, "object id parsed from object")

	// Not an object id.
	_, _, apiErr = parseTripID([]byte(`"not-an-id"`))
	testutil.IsNotNil(t, apiErr, "malformed id rejected")

	// Nothing usable.
	_, _, apiErr = parseTripID([]byte(`42`))
	testutil.IsNotNil(t, apiErr, "numeric payload rejected")
}
