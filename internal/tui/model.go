package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/farmbot-assistant/backend/internal/model/chat"
	chatservice "github.com/farmbot-assistant/backend/internal/service/chat"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	taglineStyle = lipgloss.NewStyle().Faint(true)
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	botStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	stampStyle   = lipgloss.NewStyle().Faint(true)
)

type replyMsg struct{ message chat.Message }

// Model renders one chat screen in the terminal.
type Model struct {
	screen *chatservice.Screen
	input  textinput.Model
	spin   spinner.Model
	ctx    context.Context
	width  int
	height int
}

// New builds the terminal model around screen. ctx is handed to every resolution.
func New(ctx context.Context, screen *chatservice.Screen) Model {
	profile := screen.Profile()

	in := textinput.New()
	in.Placeholder = profile.Placeholder
	in.Prompt = "> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	return Model{
		screen: screen,
		input:  in,
		spin:   s,
		ctx:    ctx,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case replyMsg:
		m.input.Focus()
		return m, textinput.Blink

	case spinner.TickMsg:
		if m.screen.State() != chatservice.StatePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.screen.State() == chatservice.StatePending {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if _, err := m.screen.Accept(text); err != nil {
		if errors.Is(err, chatservice.ErrEmptyInput) {
			m.input.SetValue("")
		}
		return m, nil
	}

	m.input.SetValue("")
	m.input.Blur()
	return m, tea.Batch(m.spin.Tick, m.resolve(text))
}

func (m Model) resolve(text string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{message: m.screen.Complete(m.ctx, text)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	profile := m.screen.Profile()

	var b strings.Builder
	b.WriteString(headerStyle.Render(profile.Name))
	b.WriteString("  ")
	b.WriteString(taglineStyle.Render(profile.Tagline))
	b.WriteString("\n\n")

	lines := lo.Map(m.screen.Messages(), func(msg chat.Message, _ int) string {
		return renderMessage(msg, profile.Name)
	})
	b.WriteString(strings.Join(lines, "\n\n"))

	if m.screen.State() == chatservice.StatePending {
		b.WriteString("\n\n")
		b.WriteString(botStyle.Render(profile.Name+":") + " " + m.spin.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func renderMessage(msg chat.Message, botName string) string {
	stamp := stampStyle.Render(msg.Timestamp.Local().Format("15:04"))
	if msg.IsUser() {
		return userStyle.Render("You:") + " " + msg.Text + "  " + stamp
	}
	return botStyle.Render(botName+":") + " " + msg.Text + "  " + stamp
}
