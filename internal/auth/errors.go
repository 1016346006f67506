package auth

import "fmt"

// ProviderError is a structured error returned by the identity provider's
// device-code or token endpoint. It is recoverable: the user can retry the
// action that triggered it.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return e.Code
	}
	return "unknown provider error"
}

// ProfileLookupError wraps a failed Graph profile fetch. It is never surfaced
// to the user as a failure; the flow substitutes a placeholder identity instead.
type ProfileLookupError struct {
	Err error
}

func (e *ProfileLookupError) Error() string {
	return fmt.Sprintf("profile lookup failed: %v", e.Err)
}

func (e *ProfileLookupError) Unwrap() error {
	return e.Err
}
