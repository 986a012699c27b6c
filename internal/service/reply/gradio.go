package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/farmbot-assistant/backend/internal/config"
)

// gradioRequest is the positional predict payload of the Gradio chat app.
// fn_index 0 corresponds to its "/chat" api_name.
type gradioRequest struct {
	Data    []any `json:"data"`
	FnIndex int   `json:"fn_index"`
}

// Gradio calls a public Gradio predict endpoint.
type Gradio struct {
	url    string
	client *resty.Client
}

// NewGradio creates a Gradio backend posting to url.
func NewGradio(url string, timeout time.Duration) *Gradio {
	return &Gradio{
		url:    url,
		client: newHTTPClient(timeout),
	}
}

// URL returns the predict endpoint.
func (g *Gradio) URL() string {
	return g.url
}

// Ask implements Backend.
func (g *Gradio) Ask(ctx context.Context, text string) (string, error) {
	payload := gradioRequest{
		Data: []any{
			text,
			config.MaxNewTokens,
			config.Temperature,
			config.TopP,
			config.TopK,
			config.RepetitionPenalty,
		},
		FnIndex: 0,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(g.url)
	if err != nil {
		return "", fmt.Errorf("call gradio: %w", err)
	}

	body, err := checkResponse(resp)
	if err != nil {
		return "", err
	}

	// replies arrive as data[0]
	return extractString(body, "data.0")
}

func newHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

func checkResponse(resp *resty.Response) ([]byte, error) {
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedPayload
	}
	return body, nil
}

func extractString(body []byte, path string) (string, error) {
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s missing", ErrEmptyReply, path)
	}
	text := result.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s blank", ErrEmptyReply, path)
	}
	return text, nil
}
