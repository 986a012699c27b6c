package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/farmbot-assistant/backend/internal/model/assistant"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(assistant.NewMemoryStore(assistant.Seed())).RegisterRoutes(r)
	return r
}

func TestListProfiles(t *testing.T) {
	resp := httptest.NewRecorder()
	setupRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var got []assistant.Profile
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, len(assistant.Seed()))
}

func TestGetProfile(t *testing.T) {
	resp := httptest.NewRecorder()
	setupRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles/ta", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var got assistant.Profile
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Equal(t, "ta", got.Language)

	resp = httptest.NewRecorder()
	setupRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles/fr", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
