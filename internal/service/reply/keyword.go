package reply

import (
	"context"

	"github.com/farmbot-assistant/backend/internal/analysis/topic"
)

// Keyword answers from the fixed topic table without touching the network.
type Keyword struct {
	classifier *topic.Classifier
}

// NewKeyword builds the keyword matcher.
func NewKeyword() (*Keyword, error) {
	c, err := topic.NewClassifier()
	if err != nil {
		return nil, err
	}
	return &Keyword{classifier: c}, nil
}

// Resolve implements Resolver.
func (k *Keyword) Resolve(_ context.Context, text string) string {
	return topic.Reply(k.classifier.Classify(text))
}

// Ask implements Backend. It never fails.
func (k *Keyword) Ask(ctx context.Context, text string) (string, error) {
	return k.Resolve(ctx, text), nil
}
