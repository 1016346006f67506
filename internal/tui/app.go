package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datanauts/genie-chat/internal/auth"
	"github.com/datanauts/genie-chat/internal/auth/models"
	"github.com/datanauts/genie-chat/internal/config"
	"github.com/datanauts/genie-chat/internal/genie"
	"github.com/datanauts/genie-chat/internal/session"
)

// AppModel is the main application model that switches between the sign-in
// page and the chat page
type AppModel struct {
	authPage AuthPageModel
	chatPage ChatPageModel
	sess     *session.Session
	page     string // "auth" or "chat"
}

// NewAppModel creates a new AppModel bound to the given flow, client and session
func NewAppModel(cfg *config.Config, flow *auth.Flow, client *genie.Client, sess *session.Session) AppModel {
	page := "auth"
	if sess.Authenticated() {
		page = "chat"
	}
	return AppModel{
		authPage: NewAuthPageModel(flow),
		chatPage: NewChatPageModel(cfg, client, sess),
		sess:     sess,
		page:     page,
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.authPage.Init(),
		m.chatPage.Init(),
	)
}

// Update handles app-level messages and delegates to the active page model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AuthenticatedMsg:
		m.sess.Identity = msg.Identity
		m.sess.Append(session.RoleAssistant, successStyle("✅ Authorization was successful! Welcome to Genie AI Chatbot."))
		m.page = "chat"
		m.chatPage.refreshViewport()
		return m, m.chatPage.Init()

	case tea.WindowSizeMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		var tempModel tea.Model

		tempModel, cmd = m.authPage.Update(msg)
		m.authPage = tempModel.(AuthPageModel)
		cmds = append(cmds, cmd)

		tempModel, cmd = m.chatPage.Update(msg)
		m.chatPage = tempModel.(ChatPageModel)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	var tempModel tea.Model
	switch m.page {
	case "auth":
		tempModel, cmd = m.authPage.Update(msg)
		m.authPage = tempModel.(AuthPageModel)
	default: // chat
		tempModel, cmd = m.chatPage.Update(msg)
		m.chatPage = tempModel.(ChatPageModel)
	}

	return m, cmd
}

// View renders the active page
func (m AppModel) View() string {
	if m.page == "chat" {
		return m.chatPage.View()
	}
	return m.authPage.View()
}

// Identity returns the signed-in identity, or nil before sign-in completes
func (m AppModel) Identity() *models.AuthenticatedIdentity {
	return m.sess.Identity
}
