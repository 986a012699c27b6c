package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/farmbot-assistant/backend/internal/model/assistant"
	chatservice "github.com/farmbot-assistant/backend/internal/service/chat"
	"github.com/farmbot-assistant/backend/internal/service/reply"
)

func newModel(t *testing.T) (Model, *chatservice.Screen) {
	t.Helper()
	kw, err := reply.NewKeyword()
	require.NoError(t, err)
	screen := chatservice.NewScreen(assistant.Seed()[0], kw)
	return New(context.Background(), screen), screen
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func pressEnter(m Model) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func findReply(t *testing.T, cmd tea.Cmd) replyMsg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if r, ok := c().(replyMsg); ok {
			return r
		}
	}
	t.Fatal("no reply command in batch")
	return replyMsg{}
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	m, screen := newModel(t)
	m = typeText(m, "   ")

	m, cmd := pressEnter(m)
	require.Nil(t, cmd)
	require.Len(t, screen.Messages(), 1)
	require.Equal(t, chatservice.StateIdle, screen.State())
	require.Empty(t, m.input.Value())
}

func TestSubmitDisablesInputUntilReply(t *testing.T) {
	m, screen := newModel(t)
	m = typeText(m, "What's the weather like?")

	m, cmd := pressEnter(m)
	require.Equal(t, chatservice.StatePending, screen.State())
	require.False(t, m.input.Focused())
	require.Empty(t, m.input.Value())
	require.Contains(t, m.View(), "What's the weather like?")

	// typing while pending is swallowed
	m = typeText(m, "more")
	require.Empty(t, m.input.Value())

	reply := findReply(t, cmd)
	require.Equal(t, 3, reply.message.ID)
	require.Equal(t, chatservice.StateIdle, screen.State())

	next, _ := m.Update(reply)
	m = next.(Model)
	require.True(t, m.input.Focused())
	require.Contains(t, m.View(), "forecast")
}

func TestQuitKeys(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	require.True(t, isQuit)
}

func TestViewLabelsBotWithProfileName(t *testing.T) {
	kw, err := reply.NewKeyword()
	require.NoError(t, err)

	p := assistant.Seed()[0]
	p.Name = "Uzhavan"
	m := New(context.Background(), chatservice.NewScreen(p, kw))

	view := m.View()
	require.Contains(t, view, "Uzhavan:")
	require.NotContains(t, view, "FarmBot:")
}
