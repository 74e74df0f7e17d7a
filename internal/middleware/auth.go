package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/utils"
)

// principalKey is the context key under which CookieAuth stores the
// resolved principal.
const principalKey = "principal"

// CookieAuth returns an Echo middleware that resolves the request's
// principal from the signed token and injects it into the request
// context. The token travels in the `token` cookie; an
// `Authorization: Bearer` header is accepted as a fallback for
// non-browser clients. The principal is re-derived on every request
// and never cached. Resolution fails closed: a missing, malformed or
// expired token always yields 401, never a partial principal.
func CookieAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie("token"); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}
			p, err := utils.ParsePrincipal(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal stored by CookieAuth. The
// second return value is false when the route was not wrapped by
// CookieAuth, which is a wiring bug in the router.
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}
