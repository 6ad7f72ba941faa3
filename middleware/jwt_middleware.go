package middleware

import (
	"party-find-backend/config"
	authutils "party-find-backend/lib/utils/auth-utils"
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewCodeError(models.ErrUnauthorized))
		},
	})
}

// AccessTokenRequired rejects refresh tokens presented as bearer tokens.
func AccessTokenRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims := authutils.GetClaims(ctx)
		if typ, ok := claims["typ"].(string); ok && typ == authutils.RefreshTokenType {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewCodeError(models.ErrUnauthorized))
		}
		return ctx.Next()
	}
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if s, ok := sub.(string); ok {
			return s
		}
	}
	return ""
}
