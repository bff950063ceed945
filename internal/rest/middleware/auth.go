package middleware

import (
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/middleware"
	"github.com/wanderplan/api/internal/rest/rest"
	"github.com/wanderplan/api/internal/utils"
)

// Auth requires a valid bearer token and stores the acting user on the
// request context.
func Auth(gCtx global.Context) rest.Middleware {
	return func(ctx *rest.Ctx) rest.APIError {
		h := utils.B2S(ctx.Request.Header.Peek("Authorization"))

		user, err := middleware.DoAuth(gCtx, h)
		if err != nil {
			return err
		}

		ctx.SetActor(user)

		return nil
	}
}
