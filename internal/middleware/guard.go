package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// Capability names an action a principal may be permitted to perform.
// Roles map onto capabilities here and nowhere else, so handlers never
// compare role strings directly.
type Capability string

const (
	CapViewOwn        Capability = "VIEW_OWN"
	CapViewAll        Capability = "VIEW_ALL"
	CapCancelOwn      Capability = "CANCEL_OWN"
	CapCancelAny      Capability = "CANCEL_ANY"
	CapViewAdminPanel Capability = "VIEW_ADMIN_PANEL"
)

// grants is the full role-to-capability table. ADMIN holds every
// capability; MEMBER holds only the ones scoped to its own resources.
var grants = map[string]map[Capability]bool{
	model.RoleAdmin: {
		CapViewOwn:        true,
		CapViewAll:        true,
		CapCancelOwn:      true,
		CapCancelAny:      true,
		CapViewAdminPanel: true,
	},
	model.RoleMember: {
		CapViewOwn:   true,
		CapCancelOwn: true,
	},
}

// Allows reports whether the principal holds the capability. Unknown
// roles hold nothing.
func Allows(p model.Principal, cap Capability) bool {
	return grants[p.Role][cap]
}

// RequireCapability returns a middleware that rejects requests whose
// principal lacks the capability. The response body is the same
// regardless of why the check failed, so a caller can never probe for
// the existence of a resource through error differentiation. It
// assumes CookieAuth ran earlier in the chain.
func RequireCapability(cap Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}
			if !Allows(p, cap) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
