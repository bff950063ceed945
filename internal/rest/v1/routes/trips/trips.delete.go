package trips

import (
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
)

type deleteRoute struct {
	Ctx global.Context
}

func newDelete(gCtx global.Context) rest.Route {
	return &deleteRoute{gCtx}
}

func (r *deleteRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "",
		Method:   rest.DELETE,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *deleteRoute) Handler(ctx *rest.Ctx) rest.APIError {
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

	// Only the creator may delete.
	if trip.CreatorID != actor.ID {
		return errors.ErrInsufficientAccess()
	}

	if apiErr = r.Ctx.Inst().Trips.Delete(ctx, tripID, trip.CreatorID); apiErr != nil {
		return apiErr
	}

	return ctx.JSON(rest.OK, rest.Map{"message": "Trip deleted"})
}
