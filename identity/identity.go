// Package identity verifies bearer ID tokens issued by the external
// identity provider. The Verifier is constructed once at startup and passed
// to the API layer explicitly, so tests can substitute a static verifier.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong audience or issuer, expired, or structurally broken token.
	// Callers map it to 403; they never learn which check failed.
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Claims is the decoded identity attached to an authenticated request.
type Claims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// Verifier checks an ID token and returns the claims it carries.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}
