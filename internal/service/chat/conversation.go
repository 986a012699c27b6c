package chat

import (
	"sync"
	"time"

	"github.com/farmbot-assistant/backend/internal/model/chat"
)

// Conversation is an append-only, ordered list of messages owned by one screen.
type Conversation struct {
	mu       sync.RWMutex
	messages []chat.Message
	now      func() time.Time
}

// NewConversation returns an empty conversation stamping messages with now.
func NewConversation(now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	return &Conversation{
		messages: make([]chat.Message, 0, 16),
		now:      now,
	}
}

// Append records a new message. Its id is the current message count plus one.
func (c *Conversation) Append(origin chat.Origin, text string) chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UTC()
	if n := len(c.messages); n > 0 && ts.Before(c.messages[n-1].Timestamp) {
		// clock stepped backwards; keep timestamps non-decreasing
		ts = c.messages[n-1].Timestamp
	}

	message := chat.Message{
		ID:        len(c.messages) + 1,
		Text:      text,
		Origin:    origin,
		Timestamp: ts,
	}
	c.messages = append(c.messages, message)
	return message
}

// All returns a copy of the messages in creation order.
func (c *Conversation) All() []chat.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
