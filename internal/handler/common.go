package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/middleware"
	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// flexID accepts a numeric JSON id either as a number or as a string,
// matching the loosely typed clients this API serves ("time":"1" and
// "time":1 are both valid).
type flexID uint64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

// MarshalJSON keeps the wire form numeric.
func (f flexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}

// principal extracts the authenticated principal stored by the auth
// middleware. ok is false when the route was registered without
// CookieAuth; callers respond 401 rather than guessing an identity.
func principal(c echo.Context) (model.Principal, bool) {
	return middleware.CurrentPrincipal(c)
}
