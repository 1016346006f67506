// Package session holds the per-run chat state. One Session is created when
// the program starts and torn down when it exits; it is never shared between
// program instances.
package session

import "github.com/datanauts/genie-chat/internal/auth/models"

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat transcript entry.
type Message struct {
	Role    Role
	Content string
}

const welcomeMessage = "👋 Hi! Ask Databricks Genie about your data."

// Session owns the authenticated identity, the active Genie conversation and
// the chat transcript.
type Session struct {
	Identity       *models.AuthenticatedIdentity
	ConversationID string
	Messages       []Message
}

// New creates a session seeded with the assistant welcome message.
func New() *Session {
	return &Session{
		Messages: []Message{
			{Role: RoleAssistant, Content: welcomeMessage},
		},
	}
}

// Append adds one entry to the transcript.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Authenticated reports whether a sign-in has completed.
func (s *Session) Authenticated() bool {
	return s.Identity != nil
}

// Teardown clears the identity, conversation and transcript. The token is
// dropped with the identity; nothing survives teardown.
func (s *Session) Teardown() {
	s.Identity = nil
	s.ConversationID = ""
	s.Messages = nil
}
