package trips

import (
	"encoding/json"

	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
)

type updateRoute struct {
	Ctx global.Context
}

func newUpdate(gCtx global.Context) rest.Route {
	return &updateRoute{gCtx}
}

func (r *updateRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "",
		Method:   rest.PUT,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Apply a content edit. The edit is persisted regardless of the trip's
// real-time mode; the mode only decides whether other subscribers hear
// about it now.
func (r *updateRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	tripID, err := ctx.UserValue("trip.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	trip, apiErr := r.Ctx.Inst().Query.TripByID(ctx, tripID)
	if apiErr != nil {
		return apiErr
	}

	if !trip.HasAccess(actor.ID) {
		return errors.ErrInsufficientAccess()
	}

	var patch model.TripPatch
	if err := json.Unmarshal(ctx.Request.Body(), &patch); err != nil {
		return errors.ErrInvalidRequest().SetDetail(err.Error())
	}

	if patch.IsEmpty() {
		return errors.ErrInvalidRequest().SetDetail("empty patch")
	}

	updated, apiErr := r.Ctx.Inst().Trips.ApplyEdit(ctx, tripID, patch)
	if apiErr != nil {
		return apiErr
	}

	return ctx.JSON(rest.OK, updated)
}
