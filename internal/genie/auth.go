package genie

import (
	"net/http"

	"golang.org/x/oauth2"
)

// AuthManager applies authentication to outbound requests.
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// TokenAuthManager implements AuthManager on top of an oauth2.TokenSource, so
// the client picks up the token issued by the device-code flow without holding
// a copy of it.
type TokenAuthManager struct {
	source oauth2.TokenSource
}

// NewTokenAuthManager creates a TokenAuthManager backed by the given source.
func NewTokenAuthManager(source oauth2.TokenSource) *TokenAuthManager {
	return &TokenAuthManager{source: source}
}

// ApplyAuth adds the bearer token to the request.
func (a *TokenAuthManager) ApplyAuth(req *http.Request) error {
	token, err := a.source.Token()
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)
	return nil
}
