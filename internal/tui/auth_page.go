package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datanauts/genie-chat/internal/auth"
	"github.com/datanauts/genie-chat/internal/auth/models"
)

// providerCallTimeout bounds one outbound call to the identity provider.
const providerCallTimeout = 30 * time.Second

// AuthPageKeyMap holds key bindings for the sign-in page
type AuthPageKeyMap struct {
	proceed key.Binding
	reset   key.Binding
	quit    key.Binding
}

func newAuthPageKeyMap() *AuthPageKeyMap {
	return &AuthPageKeyMap{
		proceed: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Continue"),
		),
		reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Start Over"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c/q", "Quit"),
		),
	}
}

// authStartedMsg reports the result of requesting a device code
type authStartedMsg struct {
	err error
}

// authCheckedMsg reports the result of one token-endpoint check
type authCheckedMsg struct {
	outcome auth.CheckOutcome
	err     error
}

// AuthenticatedMsg is emitted when sign-in completes; the app model switches
// to the chat page on it.
type AuthenticatedMsg struct {
	Identity *models.AuthenticatedIdentity
}

// AuthPageModel renders the device-code sign-in flow. Every transition is
// user-triggered: there is no background polling.
type AuthPageModel struct {
	flow    *auth.Flow
	keys    *AuthPageKeyMap
	spinner spinner.Model
	busy    bool
	notice  string
	width   int
	height  int
}

// NewAuthPageModel creates the sign-in page for the given flow.
func NewAuthPageModel(flow *auth.Flow) AuthPageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return AuthPageModel{
		flow:    flow,
		keys:    newAuthPageKeyMap(),
		spinner: sp,
	}
}

// Init initializes the model
func (m AuthPageModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the sign-in page
func (m AuthPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.proceed):
			return m.proceed()
		case key.Matches(msg, m.keys.reset):
			m.flow.Reset()
			m.notice = ""
			return m, nil
		}

	case authStartedMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = noticeStyle("❌ Error starting authentication: " + msg.err.Error())
		}
		return m, nil

	case authCheckedMsg:
		return m.resolveCheck(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// proceed advances the flow from whichever phase the user confirmed
func (m AuthPageModel) proceed() (tea.Model, tea.Cmd) {
	switch m.flow.Phase() {
	case models.PhaseFailed:
		// terminal phase: a fresh flow starts from scratch
		m.flow.Reset()
		fallthrough
	case models.PhaseNotStarted:
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, startAuthCmd(m.flow))
	case models.PhaseAwaitingUser:
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, checkAuthCmd(m.flow))
	}
	return m, nil
}

func (m AuthPageModel) resolveCheck(msg authCheckedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	switch msg.outcome {
	case auth.OutcomeToken:
		identity := m.flow.Identity()
		return m, func() tea.Msg {
			return AuthenticatedMsg{Identity: identity}
		}
	case auth.OutcomePending:
		m.notice = noticeStyle("⏳ Authentication is still pending. Please complete the sign-in and try again.")
	case auth.OutcomeDeclined:
		m.notice = noticeStyle("❌ Authentication was declined. Please start over.")
	case auth.OutcomeExpired:
		m.notice = noticeStyle("⏰ The authentication code expired. Please start over.")
	default:
		desc := "Connection error"
		if msg.err != nil {
			desc = msg.err.Error()
		}
		m.notice = noticeStyle("❌ Authentication error: " + desc)
	}
	return m, nil
}

func startAuthCmd(flow *auth.Flow) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), providerCallTimeout)
		defer cancel()
		return authStartedMsg{err: flow.Start(ctx)}
	}
}

func checkAuthCmd(flow *auth.Flow) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), providerCallTimeout)
		defer cancel()
		outcome, err := flow.Check(ctx)
		return authCheckedMsg{outcome: outcome, err: err}
	}
}

// View renders the sign-in page
func (m AuthPageModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render("🔐 Sign in to Genie AI")
	body := ""

	switch m.flow.Phase() {
	case models.PhaseNotStarted, models.PhaseFailed:
		body = "Step 1: Press enter to start authentication."

	case models.PhaseAwaitingUser, models.PhaseChecking:
		sess := m.flow.Session()
		if sess != nil {
			body = fmt.Sprintf(
				"Step 2: Copy the code below and sign in.\n\n  %s\n\nOpen %s and enter the code.\nPress enter once you've completed authentication, or r to start over.",
				userCodeStyle.Render(sess.UserCode),
				sess.VerificationURI,
			)
		}

	case models.PhaseAuthenticated:
		body = successStyle("✅ Authorization successful! Redirecting to the chatbot...")
	}

	view := title + "\n\n" + body
	if m.busy {
		view += "\n\n" + m.spinner.View() + " Verifying authentication..."
	}
	if m.notice != "" {
		view += "\n\n" + m.notice
	}
	view += "\n\n" + hintStyle.Render("enter: continue · r: start over · q: quit")

	return docStyle.Render(view)
}
