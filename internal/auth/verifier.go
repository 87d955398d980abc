// Package auth holds the identity verifier contract and its two
// implementations: Google (production) and local HS256 (dev/tests).
package auth

import "context"

// Tokens is the result of an authorization-code exchange. Clients use the
// ID token as their bearer credential on subsequent requests.
type Tokens struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// Verifier turns credentials into a stable subject identifier.
type Verifier interface {
	// AuthURL returns the provider consent URL for the given state nonce,
	// or "" when the implementation has no browser flow.
	AuthURL(state string) string
	// ExchangeCode trades an authorization code for tokens.
	ExchangeCode(ctx context.Context, code string) (*Tokens, error)
	// VerifyIDToken validates a raw bearer ID token and returns the
	// subject identifier it asserts.
	VerifyIDToken(ctx context.Context, raw string) (string, error)
}
