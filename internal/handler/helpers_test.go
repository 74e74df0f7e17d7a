package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-reservation/internal/config"
	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/ledger"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
	"github.com/iliyamo/escape-room-reservation/internal/router"
)

const testSecret = "handler-test-secret"

// newTestServer wires the full route table onto seeded in-memory
// stores: admin@email.com (ADMIN) and brown@email.com (MEMBER), both
// with password "password". No limiter, no cache, no broker.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := config.Config{
		Env:         "test",
		JWTSecret:   testSecret,
		TokenTTLMin: 10,
		BcryptCost:  4,
	}
	members, err := repository.NewSeededMemberStore(cfg.BcryptCost)
	require.NoError(t, err)
	catalog := repository.NewSeededCatalogStore()
	ldg := ledger.New()

	res := handler.NewReservationHandler(ldg, catalog)
	res.Publish = nil

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, members), cfg.JWTSecret, nil)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog), nil)
	router.RegisterBooking(e, res, cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(ldg), cfg.JWTSecret)
	return e
}

// do performs one request against the server. A non-empty token is
// sent the way browsers send it, in the `token` cookie.
func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the token cookie value.
func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/login", "",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" {
			return ck.Value
		}
	}
	t.Fatal("login response did not set the token cookie")
	return ""
}

// register creates a MEMBER account and logs it in.
func register(t *testing.T, e *echo.Echo, email, name string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/register", "",
		fmt.Sprintf(`{"email":%q,"password":"password","name":%q}`, email, name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, e, email, "password")
}

// book posts a reservation attempt for the default test slot and
// decodes the response.
func book(t *testing.T, e *echo.Echo, token, date string) (int, map[string]any) {
	t.Helper()
	rec := do(e, http.MethodPost, "/reservations", token,
		fmt.Sprintf(`{"date":%q,"time":1,"theme":1}`, date))
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

// mine fetches the caller's bookings.
func mine(t *testing.T, e *echo.Echo, token string) []map[string]any {
	t.Helper()
	rec := do(e, http.MethodGet, "/reservations-mine", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	return rows
}
