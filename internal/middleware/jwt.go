// Package middleware provides the HTTP middleware chain: JWT
// authentication, role gating, Redis rate limiting and response
// caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// actorKey is the context key under which JWTAuth stores the
// authenticated model.Actor.
const actorKey = "actor"

// Actor returns the authenticated actor stored by JWTAuth.  The second
// return is false on routes not behind JWTAuth.
func Actor(c echo.Context) (model.Actor, bool) {
	a, ok := c.Get(actorKey).(model.Actor)
	return a, ok
}

// JWTAuth validates a Bearer access token signed with secret and
// stores the resulting actor in the request context.  Protected
// handlers read it back through Actor.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// sub arrives as a JSON number.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			role, _ := claims["role"].(string)

			c.Set(actorKey, model.Actor{ID: uint64(sub), Role: role})
			return next(c)
		}
	}
}
