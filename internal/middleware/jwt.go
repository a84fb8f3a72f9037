package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ictbranch/intake-api/internal/utils"
)

// JWTProtected returns a middleware that validates admin bearer tokens
// and binds the acting administrator's identity to the request. The
// identity is what later lands in approvedBy/rejectedBy.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		if actor := extractActorFromClaims(claims); actor != "" {
			c.Locals("actor", actor)
		}

		return c.Next()
	}
}

func extractActorFromClaims(claims jwt.MapClaims) string {
	keys := []string{"name", "email", "sub"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if actor, ok := value.(string); ok && strings.TrimSpace(actor) != "" {
				return strings.TrimSpace(actor)
			}
		}
	}

	return ""
}
