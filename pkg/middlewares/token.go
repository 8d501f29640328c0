package middlewares

import (
	"video_ingest_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//TokenClientID get client id form token, set c.locals name
	TokenClientID = "ClientID"
	//TokenScope get scope form token, set c.locals name
	TokenScope = "scope"
)

// JWTMiddleware validates JWT in the Authorization header, falling back to the auth query
func JWTMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := token.BearerToken(c.Get(fiber.HeaderAuthorization))

		// header 沒有 token 就從 query 取
		if err != nil {
			tokenStr = c.Query(QueryToken)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		claims, err := token.ParseJWTFunc(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(TokenClientID, claims.ClientID)
		c.Locals(TokenScope, claims.Scope)

		return c.Next()
	}
}
