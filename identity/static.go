package identity

import "context"

// StaticVerifier resolves tokens from a fixed map. Used in tests and in
// local development when no provider credentials are available.
type StaticVerifier struct {
	Tokens map[string]*Claims
}

// NewStaticVerifier creates a verifier that accepts exactly the given tokens.
func NewStaticVerifier(tokens map[string]*Claims) *StaticVerifier {
	return &StaticVerifier{Tokens: tokens}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, idToken string) (*Claims, error) {
	claims, ok := v.Tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
