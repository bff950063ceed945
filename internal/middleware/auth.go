package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JWTClaimUser struct {
	UserID       string  `json:"u"`
	TokenVersion float64 `json:"v"`

	jwt.RegisteredClaims
}

// DoAuth verifies a bearer token and resolves the acting user. Sessions are
// issued elsewhere; this only validates.
func DoAuth(gctx global.Context, header string) (model.UserModel, errors.APIError) {
	s := strings.Split(header, "Bearer ")
	if len(s) != 2 {
		return model.UserModel{}, errors.ErrUnauthorized().SetDetail("Bad Authorization Header")
	}

	claims := &JWTClaimUser{}

	token, err := jwt.ParseWithClaims(s[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return utils.S2B(gctx.Config().Credentials.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return model.UserModel{}, errors.ErrUnauthorized().SetDetail("Bad Token")
	}

	if claims.UserID == "" {
		return model.UserModel{}, errors.ErrUnauthorized().SetDetail("Bad Token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return model.UserModel{}, errors.ErrUnauthorized().SetDetail(err.Error())
	}

	user, apiErr := gctx.Inst().Query.UserByID(gctx, userID)
	if apiErr != nil {
		return model.UserModel{}, apiErr
	}

	if user.TokenVersion != claims.TokenVersion {
		return model.UserModel{}, errors.ErrUnauthorized().SetDetail("Token Version Mismatch")
	}

	return user, nil
}
