package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datanauts/genie-chat/internal/auth/models"
)

func TestNewSeedsWelcome(t *testing.T) {
	sess := New()

	require.Len(t, sess.Messages, 1)
	assert.Equal(t, RoleAssistant, sess.Messages[0].Role)
	assert.False(t, sess.Authenticated())
}

func TestAppend(t *testing.T) {
	sess := New()

	sess.Append(RoleUser, "how many rows?")
	sess.Append(RoleAssistant, "42")

	require.Len(t, sess.Messages, 3)
	assert.Equal(t, RoleUser, sess.Messages[1].Role)
	assert.Equal(t, "how many rows?", sess.Messages[1].Content)
}

func TestTeardownClearsEverything(t *testing.T) {
	sess := New()
	sess.Identity = &models.AuthenticatedIdentity{AccessToken: "tok", DisplayName: "Ada"}
	sess.ConversationID = "conv-1"
	sess.Append(RoleUser, "hello")

	sess.Teardown()

	assert.Nil(t, sess.Identity)
	assert.Empty(t, sess.ConversationID)
	assert.Empty(t, sess.Messages)
	assert.False(t, sess.Authenticated())
}
