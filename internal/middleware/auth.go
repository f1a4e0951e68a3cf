package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/audit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/identity"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/logger"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const authContextKey = "auth"

// AuthContext is the caller identity attached to authenticated requests.
type AuthContext struct {
	UserID         uuid.UUID
	Email          string
	Role           model.Role
	OrganizationID *uuid.UUID
}

// CurrentUser returns the identity attached by Required or Optional, or
// nil when the request is anonymous.
func CurrentUser(c echo.Context) *AuthContext {
	auth, ok := c.Get(authContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// UserFinder resolves a verified identity to the application profile.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Authenticator establishes caller identity from bearer tokens and
// enforces coarse role gates. Both outbound steps (token verification,
// profile lookup) run under one deadline; any failure or ambiguity on
// the way, timeouts included, denies access.
type Authenticator struct {
	verifier identity.TokenVerifier
	users    UserFinder
	timeout  time.Duration
	audit    *audit.Recorder
}

// NewAuthenticator wires the verifier and profile store into an
// authenticator. A zero timeout falls back to five seconds.
func NewAuthenticator(verifier identity.TokenVerifier, users UserFinder, timeout time.Duration, recorder *audit.Recorder) *Authenticator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Authenticator{
		verifier: verifier,
		users:    users,
		timeout:  timeout,
		audit:    recorder,
	}
}

type authFailure struct {
	metric  string
	message string
	err     error
	// missingProfile marks a verified token without a matching user row,
	// a data-consistency signal between the identity provider and the
	// profile store.
	missingProfile bool
}

// Required rejects the request with 401 unless a bearer token verifies
// and resolves to an active user profile.
func (a *Authenticator) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth, failure := a.resolve(c)
			if failure != nil {
				a.logFailure(c, failure)
				prometheus.RecordAuthError(failure.metric)
				return authError(c, http.StatusUnauthorized, failure.message)
			}
			attach(c, auth)
			return next(c)
		}
	}
}

// Optional establishes identity when a valid token is presented and
// otherwise lets the request proceed anonymously. Verification failures
// are swallowed, never surfaced.
func (a *Authenticator) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			auth, failure := a.resolve(c)
			if failure != nil {
				logger.FromEcho(c).Debug("optional auth not established",
					zap.String("reason", failure.metric))
				return next(c)
			}
			attach(c, auth)
			return next(c)
		}
	}
}

// RequireRole gates the route to the given role set. An empty set admits
// any authenticated caller. Place after Required.
func (a *Authenticator) RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := CurrentUser(c)
			if auth == nil {
				// Misordered route setup or an unauthenticated request;
				// either way access is denied.
				prometheus.RecordAuthError("missing_identity")
				return authError(c, http.StatusUnauthorized, "authentication required")
			}
			if RoleAllowed(auth.Role, roles) {
				return next(c)
			}
			logger.FromEcho(c).Warn("role gate rejected request",
				zap.String("role", string(auth.Role)),
				zap.String("path", c.Request().URL.Path))
			prometheus.RecordAuthError("insufficient_role")
			a.audit.AccessDenied(c.Request().Context(), c.RealIP(), c.Request().UserAgent(),
				auth.UserID, string(auth.Role), c.Request().URL.Path)
			return authError(c, http.StatusForbidden, "insufficient permissions")
		}
	}
}

// RoleAllowed reports whether role grants access against the allowed
// set; an empty set admits every role.
func RoleAllowed(role model.Role, allowed []model.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// resolve walks the request through the identity states: extract the
// bearer token, verify it, look up the profile. It returns either a
// complete identity or the failure that stopped it.
func (a *Authenticator) resolve(c echo.Context) (*AuthContext, *authFailure) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, &authFailure{metric: "missing_token", message: "authentication required"}
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, &authFailure{metric: "invalid_auth_format", message: "invalid authorization format, expected Bearer token"}
	}
	token := parts[1]

	ctx, cancel := context.WithTimeout(c.Request().Context(), a.timeout)
	defer cancel()

	ident, err := a.verifier.Verify(ctx, token)
	if err != nil {
		// Timeouts, transport errors, and provider anomalies all land
		// here: deny, never allow.
		return nil, &authFailure{metric: "invalid_token", message: "invalid or expired token", err: err}
	}

	user, err := a.users.FindByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &authFailure{
				metric:         "profile_not_found",
				message:        "user not recognized",
				err:            err,
				missingProfile: true,
			}
		}
		return nil, &authFailure{metric: "profile_lookup_failed", message: "authentication failed", err: err}
	}
	if !user.IsActive {
		return nil, &authFailure{
			metric:         "profile_inactive",
			message:        "user not recognized",
			missingProfile: true,
		}
	}

	return &AuthContext{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}, nil
}

func (a *Authenticator) logFailure(c echo.Context, failure *authFailure) {
	log := logger.FromEcho(c)
	if failure.missingProfile {
		// Verified token without a usable profile; worth distinguishing
		// from ordinary bad tokens when reading logs.
		log.Error("verified token has no usable user profile",
			zap.String("reason", failure.metric),
			zap.Error(failure.err))
		return
	}
	log.Warn("authentication failed",
		zap.String("reason", failure.metric),
		zap.Error(failure.err))
}

func attach(c echo.Context, auth *AuthContext) {
	c.Set(authContextKey, auth)
	c.Set("logger", logger.FromEcho(c).With(
		zap.String("user_id", auth.UserID.String()),
		zap.String("role", string(auth.Role)),
	))
}

func authError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"message":    message,
		"statusCode": status,
	})
}
