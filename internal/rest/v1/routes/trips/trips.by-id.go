package trips

import (
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
)

type tripRoute struct {
	Ctx global.Context
}

func newTrip(gCtx global.Context) rest.Route {
	return &tripRoute{gCtx}
}

func (r *tripRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{trip.id}",
		Method: rest.GET,
		Children: []rest.Route{
			newUpdate(r.Ctx),
			newDelete(r.Ctx),
			newJoin(r.Ctx),
			newLeave(r.Ctx),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *tripRoute) Handler(ctx *rest.Ctx) rest.APIError {
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

	return ctx.JSON(rest.OK, trip)
}
