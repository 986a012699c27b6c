package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/internal/model/chat"
)

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a reply is already pending")
)

// State is the screen's input state.
type State int32

const (
	// StateIdle accepts input.
	StateIdle State = iota
	// StatePending waits for a reply; input is disabled.
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Resolver turns a user utterance into a bot reply. It must not fail.
type Resolver interface {
	Resolve(ctx context.Context, text string) string
}

// Screen is one chat screen: a conversation, a resolver and the idle/pending switch.
// At most one resolution is in flight at any time.
type Screen struct {
	profile  assistant.Profile
	conv     *Conversation
	resolver Resolver
	state    atomic.Int32
	logger   zerolog.Logger

	// transition serialises admission with the end of an exchange
	transition sync.Mutex
}

// Option customises a Screen.
type Option func(*screenOptions)

type screenOptions struct {
	now    func() time.Time
	logger *zerolog.Logger
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *screenOptions) { o.now = now }
}

// WithLogger overrides the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *screenOptions) { o.logger = &l }
}

// NewScreen creates a screen seeded with the profile greeting.
func NewScreen(profile assistant.Profile, resolver Resolver, opts ...Option) *Screen {
	o := screenOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	logger := log.With().Str("component", "screen").Str("profile", profile.ID).Logger()
	if o.logger != nil {
		logger = *o.logger
	}

	s := &Screen{
		profile:  profile,
		conv:     NewConversation(o.now),
		resolver: resolver,
		logger:   logger,
	}
	s.conv.Append(chat.OriginBot, profile.Greeting)
	return s
}

// Profile returns the greeting profile the screen was built with.
func (s *Screen) Profile() assistant.Profile {
	return s.profile
}

// State reports whether the screen is idle or waiting for a reply.
func (s *Screen) State() State {
	return State(s.state.Load())
}

// Messages returns the conversation so far.
func (s *Screen) Messages() []chat.Message {
	return s.conv.All()
}

// Accept validates text, switches the screen to pending and records the user message.
// Blank input and input arriving while a reply is pending are ignored.
func (s *Screen) Accept(text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyInput
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	if !s.state.CompareAndSwap(int32(StateIdle), int32(StatePending)) {
		return chat.Message{}, ErrBusy
	}
	return s.conv.Append(chat.OriginUser, text), nil
}

// Complete resolves a reply to text, records it and returns the screen to idle.
// It must follow a successful Accept.
func (s *Screen) Complete(ctx context.Context, text string) chat.Message {
	return s.CompleteFunc(ctx, text, nil)
}

// CompleteFunc is Complete with a hook. notify sees the reply once the screen is idle
// again, and no later Accept is admitted until notify returns.
func (s *Screen) CompleteFunc(ctx context.Context, text string, notify func(chat.Message)) chat.Message {
	started := time.Now()
	answer := s.resolver.Resolve(ctx, text)

	s.transition.Lock()
	defer s.transition.Unlock()

	message := s.conv.Append(chat.OriginBot, answer)
	s.state.Store(int32(StateIdle))

	s.logger.Debug().
		Int("message_id", message.ID).
		Dur("elapsed", time.Since(started)).
		Msg("reply appended")

	if notify != nil {
		notify(message)
	}
	return message
}

// Submit runs a whole exchange: Accept followed by Complete.
func (s *Screen) Submit(ctx context.Context, text string) (chat.Message, error) {
	if _, err := s.Accept(text); err != nil {
		return chat.Message{}, err
	}
	return s.Complete(ctx, text), nil
}
