package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datanauts/genie-chat/internal/session"
)

// renderTranscript renders the chat transcript, one labelled block per
// message, wrapped to the given width. Pure so it can be tested without a
// program harness.
func renderTranscript(messages []session.Message, width int) string {
	if width <= 0 {
		width = 80
	}
	contentStyle := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == session.RoleUser {
			b.WriteString(userLabelStyle.Render("You"))
		} else {
			b.WriteString(botLabelStyle.Render("Genie"))
		}
		b.WriteString("\n")
		b.WriteString(contentStyle.Render(msg.Content))
	}
	return b.String()
}
