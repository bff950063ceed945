package trips

import (
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
	"github.com/wanderplan/api/internal/svc/realtime"
)

// The join/leave routes are the HTTP equivalents of start-editing and
// stop-editing for clients without an open socket. The caller owns its own
// session bookkeeping on this path; leave-without-join is absorbed by the
// counter's floor at zero.

type joinRoute struct {
	Ctx global.Context
}

func newJoin(gCtx global.Context) rest.Route {
	return &joinRoute{gCtx}
}

func (r *joinRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/join",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *joinRoute) Handler(ctx *rest.Ctx) rest.APIError {
	return presenceHandler(r.Ctx, ctx, realtime.OpIncrement)
}

type leaveRoute struct {
	Ctx global.Context
}

func newLeave(gCtx global.Context) rest.Route {
	return &leaveRoute{gCtx}
}

func (r *leaveRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/leave",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *leaveRoute) Handler(ctx *rest.Ctx) rest.APIError {
	return presenceHandler(r.Ctx, ctx, realtime.OpDecrement)
}

func presenceHandler(gCtx global.Context, ctx *rest.Ctx, op realtime.Op) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	tripID, err := ctx.UserValue("trip.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	trip, apiErr := gCtx.Inst().Query.TripByID(ctx, tripID)
	if apiErr != nil {
		return apiErr
	}

	if !trip.HasAccess(actor.ID) {
		return errors.ErrInsufficientAccess()
	}

	var count int32

	switch op {
	case realtime.OpIncrement:
		count, err = gCtx.Inst().Presences.Increment(ctx, tripID)
	case realtime.OpDecrement:
		count, err = gCtx.Inst().Presences.Decrement(ctx, tripID)
	}

	if err != nil {
		return errors.ErrPresenceWriteFail().SetDetail(err.Error())
	}

	mode := gCtx.Inst().Realtime.Notify(ctx, tripID, op, count)

	return ctx.JSON(rest.OK, rest.Map{
		"active_editors": count,
		"enabled":        bool(mode),
	})
}
