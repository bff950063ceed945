package trips

import (
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
)

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/trips",
		Method: rest.GET,
		Children: []rest.Route{
			newCreate(r.Ctx),
			newTrip(r.Ctx),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// List trips the actor created or was invited to.
func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	trips, err := r.Ctx.Inst().Query.TripsByUser(ctx, actor.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(rest.OK, trips)
}
