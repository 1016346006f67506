package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datanauts/genie-chat/internal/config"
	"github.com/datanauts/genie-chat/internal/format"
	"github.com/datanauts/genie-chat/internal/genie"
	"github.com/datanauts/genie-chat/internal/session"
)

const (
	timeoutAnswer = "❌ **Error:** The request timed out. Please try again."
	genericAnswer = "❌ **Error:** An error occurred while processing your request."
)

// answerMsg carries the result of one question pipeline run
type answerMsg struct {
	payload        *genie.QueryResultPayload
	conversationID string
	err            error
}

// ChatPageModel is the chat view: transcript viewport on top, prompt below.
type ChatPageModel struct {
	cfg    *config.Config
	client *genie.Client
	sess   *session.Session

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	busy   bool
	ready  bool
	width  int
	height int
}

// NewChatPageModel creates the chat page bound to the given session.
func NewChatPageModel(cfg *config.Config, client *genie.Client, sess *session.Session) ChatPageModel {
	ti := textinput.New()
	ti.Placeholder = "Ask me about your data..."
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatPageModel{
		cfg:     cfg,
		client:  client,
		sess:    sess,
		input:   ti,
		spinner: sp,
	}
}

// Init initializes the model
func (m ChatPageModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages for the chat page
func (m ChatPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case answerMsg:
		m.busy = false
		m.sess.Append(session.RoleAssistant, m.renderAnswer(msg))
		if msg.conversationID != "" {
			m.sess.ConversationID = msg.conversationID
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatPageModel) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}

	m.sess.Append(session.RoleUser, question)
	m.input.Reset()
	m.busy = true
	m.refreshViewport()

	return m, tea.Batch(m.spinner.Tick, m.askCmd(question, m.sess.ConversationID))
}

// askCmd runs the blocking question pipeline off the UI loop. The pipeline
// itself bounds its duration; the command just reports the result.
func (m ChatPageModel) askCmd(question, conversationID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		payload, convID, err := client.Ask(context.Background(), question, conversationID)
		return answerMsg{payload: payload, conversationID: convID, err: err}
	}
}

// renderAnswer converts a pipeline result into transcript text. Every failure
// becomes a chat message; nothing here can terminate the session.
func (m ChatPageModel) renderAnswer(msg answerMsg) string {
	if msg.err != nil {
		if errors.Is(msg.err, genie.ErrTimeout) {
			return timeoutAnswer
		}
		return genericAnswer
	}

	text := format.Format(msg.payload, m.cfg.Chat.MaxDisplayRows)
	if msg.payload != nil && msg.payload.Tabular != nil && msg.payload.Tabular.QueryDescription != "" {
		text = "*" + msg.payload.Tabular.QueryDescription + "*\n\n" + text
	}
	return text
}

func (m *ChatPageModel) resize() {
	headerHeight := 2
	footerHeight := 3
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 4
	m.refreshViewport()
}

func (m *ChatPageModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderTranscript(m.sess.Messages, m.width-2))
	m.viewport.GotoBottom()
}

// View renders the chat page
func (m ChatPageModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("🤖 Genie AI Chatbot")
	if m.sess.Identity != nil {
		header += hintStyle.Render(fmt.Sprintf("  %s <%s>", m.sess.Identity.DisplayName, m.sess.Identity.Email))
	}

	footer := m.input.View()
	if m.busy {
		footer = m.spinner.View() + " Thinking..."
	}

	view := header + "\n\n" + m.viewport.View() + "\n\n" + footer
	if len(m.sess.Messages) <= 1 && len(m.cfg.Chat.SampleQuestions) > 0 {
		n := len(m.cfg.Chat.SampleQuestions)
		if n > 3 {
			n = 3
		}
		view += "\n" + hintStyle.Render("Try: "+strings.Join(m.cfg.Chat.SampleQuestions[:n], " · "))
	}

	return view
}
