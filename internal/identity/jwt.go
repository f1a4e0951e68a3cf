package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/jwtutil"
)

// JWTVerifier verifies tokens locally against the service's own HS256
// signing key.
type JWTVerifier struct {
	jwt *jwtutil.JWTUtil
}

// NewJWTVerifier creates a verifier backed by the given JWT utility.
func NewJWTVerifier(jwt *jwtutil.JWTUtil) *JWTVerifier {
	return &JWTVerifier{jwt: jwt}
}

// Verify parses and validates the token signature and expiry.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: token carries no user id", ErrTokenRejected)
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
