// Package identity abstracts the identity provider: the sole source of
// truth for bearer-token validity. Verifiers resolve a token to the
// identity it asserts, or fail; any failure mode (bad signature, remote
// rejection, transport error, timeout) means the caller stays
// unauthenticated.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Identity is the verified claim set a token asserts.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenVerifier checks a bearer token against the identity provider.
// Implementations are stateless and safe for concurrent use.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ErrTokenRejected is returned when the provider examined the token and
// declared it invalid, inactive, or expired.
var ErrTokenRejected = errors.New("token rejected by identity provider")
