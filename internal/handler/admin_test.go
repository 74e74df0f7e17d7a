package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminPanelAccess(t *testing.T) {
	e := newTestServer(t)

	anon := do(e, http.MethodGet, "/admin", "", "")
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	brown := login(t, e, "brown@email.com", "password")
	member := do(e, http.MethodGet, "/admin", brown, "")
	assert.Equal(t, http.StatusForbidden, member.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, member.Body.String())

	admin := login(t, e, "admin@email.com", "password")
	ok := do(e, http.MethodGet, "/admin", admin, "")
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestAdminPanelCounts(t *testing.T) {
	e := newTestServer(t)
	admin := login(t, e, "admin@email.com", "password")
	brown := login(t, e, "brown@email.com", "password")

	book(t, e, admin, "2026-09-01")
	book(t, e, brown, "2026-09-01")

	rec := do(e, http.MethodGet, "/admin", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reservations":1,"waitings":1}`, rec.Body.String())
}

func TestAdminListings(t *testing.T) {
	e := newTestServer(t)
	admin := login(t, e, "admin@email.com", "password")
	brown := login(t, e, "brown@email.com", "password")
	neo := register(t, e, "neo@email.com", "neo")

	book(t, e, admin, "2026-09-01")
	book(t, e, brown, "2026-09-01")
	book(t, e, neo, "2026-09-01")

	res := do(e, http.MethodGet, "/admin/reservations", admin, "")
	require.Equal(t, http.StatusOK, res.Code)
	var active []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &active))
	require.Len(t, active, 1)
	assert.Equal(t, "admin", active[0]["member"])

	wait := do(e, http.MethodGet, "/admin/waitings", admin, "")
	require.Equal(t, http.StatusOK, wait.Code)
	var waiting []map[string]any
	require.NoError(t, json.Unmarshal(wait.Body.Bytes(), &waiting))
	require.Len(t, waiting, 2)
	assert.Equal(t, "brown", waiting[0]["member"])
	assert.Equal(t, float64(1), waiting[0]["rank"])
	assert.Equal(t, "neo", waiting[1]["member"])
	assert.Equal(t, float64(2), waiting[1]["rank"])

	memberView := do(e, http.MethodGet, "/admin/reservations", brown, "")
	assert.Equal(t, http.StatusForbidden, memberView.Code)
}
