package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datanauts/genie-chat/internal/session"
)

func TestRenderTranscript(t *testing.T) {
	messages := []session.Message{
		{Role: session.RoleAssistant, Content: "👋 Hi! Ask Databricks Genie about your data."},
		{Role: session.RoleUser, Content: "total sales by region"},
		{Role: session.RoleAssistant, Content: "| region | total |"},
	}

	out := renderTranscript(messages, 80)

	assert.Contains(t, out, "Genie")
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "total sales by region")
	assert.Contains(t, out, "| region | total |")
}

func TestRenderTranscriptDeterministic(t *testing.T) {
	messages := []session.Message{
		{Role: session.RoleUser, Content: "q"},
		{Role: session.RoleAssistant, Content: "a"},
	}

	assert.Equal(t, renderTranscript(messages, 40), renderTranscript(messages, 40))
}

func TestRenderTranscriptEmpty(t *testing.T) {
	assert.Empty(t, renderTranscript(nil, 80))
}
