package chat

import "time"

// Origin tags who authored a message.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Message is one turn of a conversation. Messages are never mutated once created.
type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Origin == OriginUser
}
