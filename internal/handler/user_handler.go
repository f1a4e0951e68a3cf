package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/audit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/middleware"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/repository"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/schema"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/logger"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUserStore is the persistence surface the admin user endpoints
// need.
type AdminUserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.UserFilter) ([]model.User, int64, error)
}

// UserHandler serves the admin-only user management endpoints.
type UserHandler struct {
	store AdminUserStore
	audit *audit.Recorder
}

// NewUserHandler creates the user management handler.
func NewUserHandler(store AdminUserStore, recorder *audit.Recorder) *UserHandler {
	return &UserHandler{store: store, audit: recorder}
}

// Create provisions a user with an explicit role.
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req schema.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "user", err)
	}
	req.Defaults()

	ctx := c.Request().Context()
	if _, err := h.store.FindByEmail(ctx, req.Email); err == nil {
		return respondMessage(c, http.StatusConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to check existing email", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	user := req.ToModel(string(hash))
	if err := h.store.Create(ctx, &user); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("user", "create")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "user", user.ID)
	}
	log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return respondOK(c, http.StatusCreated, user)
}

// Get returns one user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user id")
	}

	user, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "user not found")
		}
		logger.FromEcho(c).Error("failed to load user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("user", "get")
	return respondOK(c, http.StatusOK, user)
}

// List returns one page of users matching the query filters.
func (h *UserHandler) List(c echo.Context) error {
	var req schema.SearchUserRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "user", err)
	}
	req.Defaults()

	filter := repository.UserFilter{
		Query:          strVal(req.Query),
		Role:           strVal(req.Role),
		OrganizationID: uuidPtr(req.OrganizationID),
		IsActive:       req.IsActive,
		Limit:          *req.Limit,
		Offset:         *req.Offset,
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search users", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("user", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update, including role and activation
// changes. An email change is checked for uniqueness first.
func (h *UserHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user id")
	}

	var req schema.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "user", err)
	}

	ctx := c.Request().Context()
	user, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "user not found")
		}
		log.Error("failed to load user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := h.store.FindByEmail(ctx, *req.Email); err == nil {
			return respondMessage(c, http.StatusConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to check existing email", zap.Error(err))
			return respondMessage(c, http.StatusInternalServerError, "internal error")
		}
	}

	req.Apply(user)
	if err := h.store.Save(ctx, user); err != nil {
		log.Error("failed to update user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("user", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "user", user.ID)
	}
	log.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return respondOK(c, http.StatusOK, user)
}

// Delete soft deletes one user. Admins cannot delete their own account,
// which keeps at least the acting admin alive.
func (h *UserHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user id")
	}

	if auth := middleware.CurrentUser(c); auth != nil && auth.UserID == id {
		return respondMessage(c, http.StatusBadRequest, "cannot delete your own account")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "user not found")
		}
		log.Error("failed to delete user", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("user", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "user", id)
	}
	log.Info("user deleted", zap.String("user_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "user deleted"})
}
