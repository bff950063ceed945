package trips

import (
	"encoding/json"
	"time"

	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/data/mutate"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
)

type createRoute struct {
	Ctx global.Context
}

func newCreate(gCtx global.Context) rest.Route {
	return &createRoute{gCtx}
}

func (r *createRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

type createTripBody struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartDate   *time.Time         `json:"start_date"`
	EndDate     *time.Time         `json:"end_date"`
	Places      []model.PlaceModel `json:"places"`
}

func (r *createRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	var body createTripBody
	if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
		return errors.ErrInvalidRequest().SetDetail(err.Error())
	}

	if body.Title == "" {
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "title"})
	}

	trip, err := r.Ctx.Inst().Mutate.CreateTrip(ctx, mutate.CreateTripOptions{
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Places:      body.Places,
		CreatorID:   actor.ID,
	})
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return ctx.JSON(rest.Created, trip)
}
