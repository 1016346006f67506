package models

// Phase is the client-side state of one device-code sign-in.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingUser
	PhaseChecking
	PhaseAuthenticated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseAwaitingUser:
		return "awaiting_user"
	case PhaseChecking:
		return "checking"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeviceCodeSession holds the transient state between requesting a device code
// and redeeming it. DeviceCode is a secret: it goes to the token endpoint and
// nowhere else, never to the user or the logs.
type DeviceCodeSession struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	ExpiresIn       int
	Interval        int
}

// AuthenticatedIdentity is the outcome of a successful sign-in. AccessToken is
// owned by the session and must never be logged.
type AuthenticatedIdentity struct {
	AccessToken string
	DisplayName string
	Email       string
}

// DeviceCodeResponse is the device-authorization endpoint wire format.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`

	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenResponse is the token endpoint wire format. Error carries the OAuth
// error code (authorization_pending, authorization_declined, expired_token, ...)
// when the grant has not been redeemed yet.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`

	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// GraphProfile is the subset of the Microsoft Graph /me response we read.
type GraphProfile struct {
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}
