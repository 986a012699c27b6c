package reply

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/farmbot-assistant/backend/internal/config"
)

// Fixed texts shown to the user when no real reply is available.
const (
	ApologyText = "I'm sorry, I'm having trouble connecting to my knowledge base right now. Please try again in a moment."
	RetryText   = "I'm having trouble processing your request. Please try again."
)

var (
	// ErrEmptyReply means the upstream answered but the expected reply field was missing or empty.
	ErrEmptyReply = errors.New("empty reply")
	// ErrUpstreamStatus means the upstream answered with a non-2xx status.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrMalformedPayload means the upstream body was not JSON.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// Backend produces a reply for one user utterance or reports why it could not.
type Backend interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Resolver produces a reply for one user utterance and never fails.
type Resolver interface {
	Resolve(ctx context.Context, text string) string
}

// Remote adapts a Backend into a Resolver, turning every failure into a fixed user-facing text.
type Remote struct {
	backend Backend
	mode    config.Mode
}

// NewRemote wraps backend.
func NewRemote(backend Backend, mode config.Mode) *Remote {
	return &Remote{backend: backend, mode: mode}
}

// Resolve implements Resolver.
func (r *Remote) Resolve(ctx context.Context, text string) string {
	answer, err := r.backend.Ask(ctx, text)
	if err == nil {
		return answer
	}

	if errors.Is(err, ErrEmptyReply) {
		log.Warn().Err(err).Str("mode", string(r.mode)).Msg("reply backend returned no usable reply")
		return RetryText
	}

	log.Error().Err(err).Str("mode", string(r.mode)).Msg("reply backend failed")
	return ApologyText
}

// NewBackend builds the error-returning backend selected by cfg.Mode.
func NewBackend(ctx context.Context, cfg config.ReplyConfig, aiCfg config.AIConfig) (Backend, error) {
	switch cfg.Mode {
	case config.ModeGradio:
		return NewGradio(cfg.GradioURL, cfg.Timeout), nil
	case config.ModeBackend:
		return NewChatBackend(cfg.BackendURL, cfg.Timeout), nil
	case config.ModeKeyword:
		return NewKeyword()
	case config.ModeArk:
		chatModel, err := aiCfg.NewChatModel(ctx, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return NewArk(ctx, chatModel, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownMode, cfg.Mode)
	}
}

// ResolverFor turns backend into a Resolver. The keyword backend never fails and is used as is.
func ResolverFor(backend Backend, mode config.Mode) Resolver {
	if kw, ok := backend.(*Keyword); ok {
		return kw
	}
	return NewRemote(backend, mode)
}

// New builds the Resolver selected by cfg.Mode.
func New(ctx context.Context, cfg config.ReplyConfig, aiCfg config.AIConfig) (Resolver, error) {
	backend, err := NewBackend(ctx, cfg, aiCfg)
	if err != nil {
		return nil, err
	}
	return ResolverFor(backend, cfg.Mode), nil
}
