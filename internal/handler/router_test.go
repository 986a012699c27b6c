package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/internal/service/reply"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	kw, err := reply.NewKeyword()
	require.NoError(t, err)

	return NewRouter(Deps{
		Logger:   zerolog.Nop(),
		Profiles: assistant.NewMemoryStore(assistant.Seed()),
		Backend:  kw,
		Resolver: kw,
		Reply:    config.ReplyConfig{Mode: config.ModeKeyword},
	})
}

func TestRouterServesChatInKeywordMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"message":"What's the weather like?"}`)).WithContext(context.Background())
	resp := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "forecast")
	require.NotEmpty(t, resp.Header().Get("Content-Type"))
}

func TestRouterMountsProfilesUnderAPI(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterHealth(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"mode":"keyword"`)
}
