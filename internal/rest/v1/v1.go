package v1

import (
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/rest/rest"
	"github.com/wanderplan/api/internal/rest/v1/routes"
)

func API(gCtx global.Context, router *rest.Router) rest.Route {
	return routes.New(gCtx)
}
