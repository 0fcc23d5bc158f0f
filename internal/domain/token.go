package domain

import "math/rand/v2"

const (
	tokenLength   = 30
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NewSubscriptionToken returns a 30-character alphanumeric confirmation
// token. It gates confirmation links, it is not a credential, so an
// unpredictable non-cryptographic source is enough. Uniqueness is
// enforced by the token table's primary key.
func NewSubscriptionToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return string(b)
}
