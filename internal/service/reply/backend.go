package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ChatBackend calls a local chat service exposing POST /chat.
type ChatBackend struct {
	url    string
	client *resty.Client
}

// NewChatBackend creates a backend for the service rooted at baseURL.
func NewChatBackend(baseURL string, timeout time.Duration) *ChatBackend {
	return &ChatBackend{
		url:    strings.TrimRight(baseURL, "/") + "/chat",
		client: newHTTPClient(timeout),
	}
}

// URL returns the chat endpoint.
func (b *ChatBackend) URL() string {
	return b.url
}

// Ask implements Backend.
func (b *ChatBackend) Ask(ctx context.Context, text string) (string, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": text}).
		Post(b.url)
	if err != nil {
		return "", fmt.Errorf("call chat backend: %w", err)
	}

	body, err := checkResponse(resp)
	if err != nil {
		return "", err
	}
	return extractString(body, "reply")
}
