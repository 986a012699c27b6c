package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const farmingSystemPrompt = "You are FarmBot Assistant, a friendly farming expert. " +
	"Answer questions about crops, livestock, weather, pests, soil and farming techniques in short, practical paragraphs. " +
	"Reply in the same language the farmer writes in."

// Ark answers through a chat model compiled into an eino chain.
type Ark struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewArk compiles the prompt chain around chatModel. A positive timeout bounds every Ask.
func NewArk(ctx context.Context, chatModel model.BaseChatModel, timeout time.Duration) (*Ark, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	return &Ark{chain: runnable, timeout: timeout}, nil
}

// Ask implements Backend.
func (a *Ark) Ask(ctx context.Context, text string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	msg, err := a.chain.Invoke(ctx, map[string]any{
		"system": farmingSystemPrompt,
		"query":  text,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("chat chain interrupted: %w", ctxErr)
		}
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyReply
	}
	return msg.Content, nil
}
