package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/datanauts/genie-chat/internal/auth/models"
	"github.com/datanauts/genie-chat/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Placeholder identity used when the Graph profile lookup fails. Sign-in
// success must never depend on the profile fetch.
const (
	fallbackDisplayName = "Authenticated User"
	fallbackEmail       = "user@authenticated.com"
)

// CheckOutcome classifies one token-endpoint poll.
type CheckOutcome int

const (
	// OutcomeToken means the user finished signing in and a token was issued.
	OutcomeToken CheckOutcome = iota
	// OutcomePending is the steady state while the user signs in out-of-band.
	OutcomePending
	// OutcomeDeclined means the user rejected the authorization request.
	OutcomeDeclined
	// OutcomeExpired means the device code timed out before redemption.
	OutcomeExpired
	// OutcomeFailure covers any other provider error or a transport failure.
	OutcomeFailure
)

// nextPhase is the transition table for resolving a CHECKING state. It is pure
// so the state machine can be verified without any UI or HTTP harness.
func nextPhase(outcome CheckOutcome) models.Phase {
	switch outcome {
	case OutcomeToken:
		return models.PhaseAuthenticated
	case OutcomeDeclined, OutcomeExpired:
		return models.PhaseFailed
	default:
		// pending and recoverable failures return to waiting for the user
		return models.PhaseAwaitingUser
	}
}

// classifyCheck maps a token-endpoint result onto a CheckOutcome.
func classifyCheck(resp *models.TokenResponse, err error) CheckOutcome {
	if err != nil {
		return OutcomeFailure
	}
	if resp.AccessToken != "" {
		return OutcomeToken
	}
	switch resp.Error {
	case "authorization_pending":
		return OutcomePending
	case "authorization_declined":
		return OutcomeDeclined
	case "expired_token":
		return OutcomeExpired
	default:
		return OutcomeFailure
	}
}

// ErrNotAuthenticated is returned by Token before a sign-in has completed.
var ErrNotAuthenticated = errors.New("not authenticated")

// Flow drives one device-code sign-in across UI re-renders. All methods are
// safe for concurrent use: the TUI reads state while checks run in background
// commands.
type Flow struct {
	mu       sync.Mutex
	provider Provider
	phase    models.Phase
	session  *models.DeviceCodeSession
	identity *models.AuthenticatedIdentity
}

// NewFlow creates a flow in the NotStarted phase.
func NewFlow(provider Provider) *Flow {
	return &Flow{
		provider: provider,
		phase:    models.PhaseNotStarted,
	}
}

// Phase returns the current phase.
func (f *Flow) Phase() models.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Session returns a copy of the pending device-code session, or nil.
func (f *Flow) Session() *models.DeviceCodeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	s := *f.session
	return &s
}

// Identity returns a copy of the authenticated identity, or nil.
func (f *Flow) Identity() *models.AuthenticatedIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity == nil {
		return nil
	}
	id := *f.identity
	return &id
}

// Token implements oauth2.TokenSource for downstream service clients.
func (f *Flow) Token() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity == nil {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken: f.identity.AccessToken,
		TokenType:   "Bearer",
	}, nil
}

// Start requests a device code and moves NotStarted to AwaitingUser. On any
// error the flow stays at NotStarted so the user can simply retry.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != models.PhaseNotStarted {
		f.mu.Unlock()
		return fmt.Errorf("cannot start authentication from phase %s", f.phase)
	}
	f.mu.Unlock()

	resp, err := f.provider.RequestDeviceCode(ctx)
	if err != nil {
		logger.Warn("failed to start device code flow", zap.Error(err))
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &models.DeviceCodeSession{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		ExpiresIn:       resp.ExpiresIn,
		Interval:        resp.Interval,
	}
	f.phase = models.PhaseAwaitingUser
	return nil
}

// Check polls the token endpoint once and resolves the CHECKING state per the
// transition table. There is no automatic polling loop: every call is
// triggered by an explicit user action.
func (f *Flow) Check(ctx context.Context) (CheckOutcome, error) {
	f.mu.Lock()
	if f.phase != models.PhaseAwaitingUser || f.session == nil {
		f.mu.Unlock()
		return OutcomeFailure, errors.New("no pending device-code session to check")
	}
	f.phase = models.PhaseChecking
	deviceCode := f.session.DeviceCode
	f.mu.Unlock()

	resp, err := f.provider.RedeemDeviceCode(ctx, deviceCode)
	outcome := classifyCheck(resp, err)

	var identity *models.AuthenticatedIdentity
	if outcome == OutcomeToken {
		identity = f.buildIdentity(ctx, resp.AccessToken)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.phase = nextPhase(outcome)
	switch outcome {
	case OutcomeToken:
		f.identity = identity
		f.session = nil
		logger.Info("authentication completed", zap.String("user", identity.DisplayName))
	case OutcomeDeclined, OutcomeExpired:
		f.session = nil
		logger.Warn("authentication failed", zap.String("reason", resp.Error))
	case OutcomePending:
		logger.Debug("authorization still pending")
	case OutcomeFailure:
		if err == nil && resp != nil {
			err = &ProviderError{Code: resp.Error, Description: resp.ErrorDescription}
		}
		logger.Warn("token check failed", zap.Error(err))
	}

	return outcome, err
}

// buildIdentity fetches the user profile best-effort. The single substitution
// rule: any lookup error yields the fixed placeholder identity.
func (f *Flow) buildIdentity(ctx context.Context, accessToken string) *models.AuthenticatedIdentity {
	identity := &models.AuthenticatedIdentity{
		AccessToken: accessToken,
		DisplayName: fallbackDisplayName,
		Email:       fallbackEmail,
	}

	profile, err := f.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		logger.Warn("using placeholder identity", zap.Error(err))
		return identity
	}

	if profile.DisplayName != "" {
		identity.DisplayName = profile.DisplayName
	} else {
		identity.DisplayName = "User"
	}
	switch {
	case profile.Mail != "":
		identity.Email = profile.Mail
	case profile.UserPrincipalName != "":
		identity.Email = profile.UserPrincipalName
	default:
		identity.Email = "user@example.com"
	}
	return identity
}

// Reset tears the device-code session down and returns to NotStarted. It is
// the "start over" action and also how a fresh flow begins after a terminal
// phase.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
	f.identity = nil
	f.phase = models.PhaseNotStarted
}
