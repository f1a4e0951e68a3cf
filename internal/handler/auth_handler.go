package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/audit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/middleware"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/ratelimit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/schema"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/jwtutil"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/logger"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthUserStore is the user persistence the auth endpoints need.
type AuthUserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

// AuthHandler serves registration, login, and profile endpoints.
type AuthHandler struct {
	users   AuthUserStore
	jwt     *jwtutil.JWTUtil
	limiter *ratelimit.LoginLimiter
	audit   *audit.Recorder
}

// NewAuthHandler creates the auth handler. The limiter and recorder may
// be nil, which disables login throttling and auditing respectively.
func NewAuthHandler(users AuthUserStore, jwt *jwtutil.JWTUtil, limiter *ratelimit.LoginLimiter, recorder *audit.Recorder) *AuthHandler {
	return &AuthHandler{
		users:   users,
		jwt:     jwt,
		limiter: limiter,
		audit:   recorder,
	}
}

// Register creates a new account with the read_only role.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req schema.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "user", err)
	}

	ctx := c.Request().Context()
	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		prometheus.RecordAuthError("email_already_exists")
		return respondMessage(c, http.StatusConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to check existing email", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "registration failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "registration failed")
	}

	user := req.ToModel(string(hash))
	if err := h.users.Create(ctx, &user); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "registration failed")
	}

	h.audit.UserRegistered(ctx, c.RealIP(), c.Request().UserAgent(), &user)
	prometheus.RecordAuthOperation("register")
	log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return respondOK(c, http.StatusCreated, user)
}

// Login verifies credentials and issues a signed token. Unknown emails,
// wrong passwords, and deactivated accounts all produce the same
// response so the endpoint does not reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req schema.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "login", err)
	}

	ctx := c.Request().Context()
	ip := c.RealIP()
	userAgent := c.Request().UserAgent()

	if h.limiter != nil {
		if ok, reason := h.limiter.Check(ip, req.Email); !ok {
			prometheus.RecordRateLimited("login")
			h.audit.RateLimited(ctx, ip, userAgent, req.Email)
			log.Warn("login rate limited",
				zap.String("ip", ip),
				zap.String("reason", reason),
			)
			return respondMessage(c, http.StatusTooManyRequests, "too many login attempts, try again later")
		}
	}

	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to look up user", zap.Error(err))
		}
		prometheus.RecordAuthError("user_not_found")
		h.audit.LoginFailed(ctx, ip, userAgent, req.Email, "unknown email")
		return respondMessage(c, http.StatusUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		prometheus.RecordAuthError("user_inactive")
		h.audit.LoginFailed(ctx, ip, userAgent, req.Email, "account deactivated")
		return respondMessage(c, http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		h.audit.LoginFailed(ctx, ip, userAgent, req.Email, "wrong password")
		return respondMessage(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, string(user.Role), user.OrganizationID)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		log.Error("failed to generate token", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "login failed")
	}

	if h.limiter != nil {
		h.limiter.ResetEmail(req.Email)
	}
	h.audit.LoginSucceeded(ctx, ip, userAgent, user)
	prometheus.RecordAuthOperation("login")
	log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return respondOK(c, http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Profile returns the authenticated caller's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	auth := middleware.CurrentUser(c)
	if auth == nil {
		return respondMessage(c, http.StatusUnauthorized, "authentication required")
	}

	user, err := h.users.FindByID(c.Request().Context(), auth.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusUnauthorized, "user not recognized")
		}
		logger.FromEcho(c).Error("failed to load profile", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordAuthOperation("profile")
	return respondOK(c, http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's own account.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)
	auth := middleware.CurrentUser(c)
	if auth == nil {
		return respondMessage(c, http.StatusUnauthorized, "authentication required")
	}

	var req schema.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "user", err)
	}

	ctx := c.Request().Context()
	user, err := h.users.FindByID(ctx, auth.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusUnauthorized, "user not recognized")
		}
		log.Error("failed to load profile", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	req.Apply(user)
	if err := h.users.Save(ctx, user); err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordAuthOperation("profile_update")
	log.Info("profile updated", zap.String("user_id", user.ID.String()))
	return respondOK(c, http.StatusOK, user)
}

// ChangePassword rotates the caller's password after re-verifying the
// current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)
	auth := middleware.CurrentUser(c)
	if auth == nil {
		return respondMessage(c, http.StatusUnauthorized, "authentication required")
	}

	var req schema.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "password", err)
	}

	ctx := c.Request().Context()
	user, err := h.users.FindByID(ctx, auth.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusUnauthorized, "user not recognized")
		}
		log.Error("failed to load user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return respondMessage(c, http.StatusBadRequest, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	user.PasswordHash = string(hash)
	if err := h.users.Save(ctx, user); err != nil {
		log.Error("failed to save password", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	h.audit.PasswordChanged(ctx, c.RealIP(), c.Request().UserAgent(), user)
	prometheus.RecordAuthOperation("password_change")
	log.Info("password changed", zap.String("user_id", user.ID.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "password changed"})
}
