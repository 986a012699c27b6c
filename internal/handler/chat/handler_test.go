package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/service/reply"
)

type stubBackend struct {
	reply string
	err   error
	calls int
}

func (s *stubBackend) Ask(_ context.Context, text string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply + text, nil
}

func setupRouter(backend reply.Backend) *chi.Mux {
	r := chi.NewRouter()
	New(backend, config.ModeGradio, "https://example.gradio.live/api/predict").RegisterRoutes(r)
	return r
}

func postChat(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsReply(t *testing.T) {
	backend := &stubBackend{reply: "re: "}
	resp := postChat(setupRouter(backend), []byte(`{"message":"hello"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body chatResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Reply != "re: hello" {
		t.Fatalf("unexpected reply %q", body.Reply)
	}
}

func TestChatRejectsBlankMessage(t *testing.T) {
	for _, payload := range []string{`{}`, `{"message":""}`, `{"message":"   "}`, `not json`} {
		backend := &stubBackend{}
		resp := postChat(setupRouter(backend), []byte(payload))

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, resp.Code)
		}
		if backend.calls != 0 {
			t.Fatalf("payload %s: backend should not be called", payload)
		}
	}
}

func TestChatUpstreamFailureIsBadGateway(t *testing.T) {
	backend := &stubBackend{err: errors.New("dial tcp: connection refused")}
	resp := postChat(setupRouter(backend), []byte(`{"message":"hello"}`))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	setupRouter(&stubBackend{}).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["mode"] != "gradio" {
		t.Fatalf("unexpected health body %v", body)
	}
}

func TestNewValidatorRegistersNotBlank(t *testing.T) {
	v, err := newValidator()
	if err != nil {
		t.Fatalf("newValidator: %v", err)
	}
	if err := v.Struct(chatRequest{Message: " \t "}); err == nil {
		t.Fatal("expected blank message to fail validation")
	}
	if err := v.Struct(chatRequest{Message: "hi"}); err != nil {
		t.Fatalf("expected message to pass validation: %v", err)
	}
}

func TestChatWithoutValidatorStillRejectsBlank(t *testing.T) {
	backend := &stubBackend{}
	h := New(backend, config.ModeGradio, "")
	h.validate = nil

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	if resp := postChat(r, []byte(`{"message":"  "}`)); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := postChat(r, []byte(`{"message":"ok"}`)); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if backend.calls != 1 {
		t.Fatalf("expected one backend call, got %d", backend.calls)
	}
}
