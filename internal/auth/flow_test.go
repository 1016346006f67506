package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datanauts/genie-chat/internal/auth/models"
)

// mockProvider implements Provider for state-machine tests
type mockProvider struct {
	deviceResp *models.DeviceCodeResponse
	deviceErr  error
	tokenResp  *models.TokenResponse
	tokenErr   error
	profile    *models.GraphProfile
	profileErr error
}

func (m *mockProvider) RequestDeviceCode(ctx context.Context) (*models.DeviceCodeResponse, error) {
	return m.deviceResp, m.deviceErr
}

func (m *mockProvider) RedeemDeviceCode(ctx context.Context, deviceCode string) (*models.TokenResponse, error) {
	return m.tokenResp, m.tokenErr
}

func (m *mockProvider) FetchProfile(ctx context.Context, accessToken string) (*models.GraphProfile, error) {
	return m.profile, m.profileErr
}

func validDeviceResp() *models.DeviceCodeResponse {
	return &models.DeviceCodeResponse{
		DeviceCode:      "dev-secret",
		UserCode:        "ABCD-1234",
		VerificationURI: "https://microsoft.com/devicelogin",
		ExpiresIn:       900,
		Interval:        5,
	}
}

func startedFlow(t *testing.T, provider *mockProvider) *Flow {
	t.Helper()
	provider.deviceResp = validDeviceResp()
	flow := NewFlow(provider)
	require.NoError(t, flow.Start(context.Background()))
	require.Equal(t, models.PhaseAwaitingUser, flow.Phase())
	return flow
}

func TestStartStoresSessionFields(t *testing.T) {
	flow := startedFlow(t, &mockProvider{})

	sess := flow.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "dev-secret", sess.DeviceCode)
	assert.Equal(t, "ABCD-1234", sess.UserCode)
	assert.Equal(t, "https://microsoft.com/devicelogin", sess.VerificationURI)
	assert.Equal(t, 900, sess.ExpiresIn)
	assert.Equal(t, 5, sess.Interval)
}

func TestStartProviderErrorStaysNotStarted(t *testing.T) {
	provider := &mockProvider{
		deviceErr: &ProviderError{Code: "invalid_client", Description: "bad client"},
	}
	flow := NewFlow(provider)

	err := flow.Start(context.Background())

	require.Error(t, err)
	assert.Equal(t, models.PhaseNotStarted, flow.Phase())
	assert.Nil(t, flow.Session())

	// the error is recoverable: a retry can succeed
	provider.deviceErr = nil
	provider.deviceResp = validDeviceResp()
	require.NoError(t, flow.Start(context.Background()))
	assert.Equal(t, models.PhaseAwaitingUser, flow.Phase())
}

func TestStartFromWrongPhase(t *testing.T) {
	flow := startedFlow(t, &mockProvider{})

	assert.Error(t, flow.Start(context.Background()))
}

func TestCheckOutcomes(t *testing.T) {
	tests := []struct {
		name              string
		tokenResp         *models.TokenResponse
		tokenErr          error
		expectOutcome     CheckOutcome
		expectPhase       models.Phase
		expectSessionGone bool
	}{
		{
			name:              "token issued",
			tokenResp:         &models.TokenResponse{AccessToken: "tok"},
			expectOutcome:     OutcomeToken,
			expectPhase:       models.PhaseAuthenticated,
			expectSessionGone: true,
		},
		{
			name:          "authorization pending",
			tokenResp:     &models.TokenResponse{Error: "authorization_pending"},
			expectOutcome: OutcomePending,
			expectPhase:   models.PhaseAwaitingUser,
		},
		{
			name:              "authorization declined",
			tokenResp:         &models.TokenResponse{Error: "authorization_declined"},
			expectOutcome:     OutcomeDeclined,
			expectPhase:       models.PhaseFailed,
			expectSessionGone: true,
		},
		{
			name:              "expired token",
			tokenResp:         &models.TokenResponse{Error: "expired_token"},
			expectOutcome:     OutcomeExpired,
			expectPhase:       models.PhaseFailed,
			expectSessionGone: true,
		},
		{
			name:          "other provider error",
			tokenResp:     &models.TokenResponse{Error: "slow_down", ErrorDescription: "too fast"},
			expectOutcome: OutcomeFailure,
			expectPhase:   models.PhaseAwaitingUser,
		},
		{
			name:          "transport failure",
			tokenErr:      errors.New("connection refused"),
			expectOutcome: OutcomeFailure,
			expectPhase:   models.PhaseAwaitingUser,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mockProvider{
				tokenResp:  tc.tokenResp,
				tokenErr:   tc.tokenErr,
				profileErr: &ProfileLookupError{Err: errors.New("no profile")},
			}
			flow := startedFlow(t, provider)

			outcome, _ := flow.Check(context.Background())

			assert.Equal(t, tc.expectOutcome, outcome)
			assert.Equal(t, tc.expectPhase, flow.Phase())
			if tc.expectSessionGone {
				assert.Nil(t, flow.Session())
			} else {
				assert.NotNil(t, flow.Session())
			}
		})
	}
}

func TestCheckWithoutSession(t *testing.T) {
	flow := NewFlow(&mockProvider{})

	_, err := flow.Check(context.Background())

	assert.Error(t, err)
	assert.Equal(t, models.PhaseNotStarted, flow.Phase())
}

func TestProfileFailureNeverBlocksAuthentication(t *testing.T) {
	provider := &mockProvider{
		tokenResp:  &models.TokenResponse{AccessToken: "tok"},
		profileErr: &ProfileLookupError{Err: errors.New("graph down")},
	}
	flow := startedFlow(t, provider)

	outcome, err := flow.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeToken, outcome)
	assert.Equal(t, models.PhaseAuthenticated, flow.Phase())

	identity := flow.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, "tok", identity.AccessToken)
	assert.Equal(t, "Authenticated User", identity.DisplayName)
	assert.Equal(t, "user@authenticated.com", identity.Email)
}

func TestProfileFieldsApplied(t *testing.T) {
	tests := []struct {
		name        string
		profile     *models.GraphProfile
		expectName  string
		expectEmail string
	}{
		{
			name:        "mail preferred",
			profile:     &models.GraphProfile{DisplayName: "Ada", Mail: "ada@example.com", UserPrincipalName: "ada@corp"},
			expectName:  "Ada",
			expectEmail: "ada@example.com",
		},
		{
			name:        "principal name fallback",
			profile:     &models.GraphProfile{DisplayName: "Ada", UserPrincipalName: "ada@corp"},
			expectName:  "Ada",
			expectEmail: "ada@corp",
		},
		{
			name:        "empty profile",
			profile:     &models.GraphProfile{},
			expectName:  "User",
			expectEmail: "user@example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mockProvider{
				tokenResp: &models.TokenResponse{AccessToken: "tok"},
				profile:   tc.profile,
			}
			flow := startedFlow(t, provider)

			_, err := flow.Check(context.Background())

			require.NoError(t, err)
			identity := flow.Identity()
			require.NotNil(t, identity)
			assert.Equal(t, tc.expectName, identity.DisplayName)
			assert.Equal(t, tc.expectEmail, identity.Email)
		})
	}
}

func TestResetTearsDown(t *testing.T) {
	flow := startedFlow(t, &mockProvider{})

	flow.Reset()

	assert.Equal(t, models.PhaseNotStarted, flow.Phase())
	assert.Nil(t, flow.Session())
	assert.Nil(t, flow.Identity())
}

func TestTokenSource(t *testing.T) {
	provider := &mockProvider{
		tokenResp:  &models.TokenResponse{AccessToken: "tok"},
		profileErr: &ProfileLookupError{Err: errors.New("no profile")},
	}
	flow := startedFlow(t, provider)

	_, err := flow.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = flow.Check(context.Background())
	require.NoError(t, err)

	token, err := flow.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestNextPhase(t *testing.T) {
	assert.Equal(t, models.PhaseAuthenticated, nextPhase(OutcomeToken))
	assert.Equal(t, models.PhaseAwaitingUser, nextPhase(OutcomePending))
	assert.Equal(t, models.PhaseFailed, nextPhase(OutcomeDeclined))
	assert.Equal(t, models.PhaseFailed, nextPhase(OutcomeExpired))
	assert.Equal(t, models.PhaseAwaitingUser, nextPhase(OutcomeFailure))
}
