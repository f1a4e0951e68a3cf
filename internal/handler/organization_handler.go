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
	"gorm.io/gorm"
)

// OrganizationStore is the persistence surface the organization
// endpoints need.
type OrganizationStore interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	Save(ctx context.Context, org *model.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.OrganizationFilter) ([]model.Organization, int64, error)
}

// OrganizationHandler serves the organization CRUD endpoints.
type OrganizationHandler struct {
	store OrganizationStore
	audit *audit.Recorder
}

// NewOrganizationHandler creates the organization handler.
func NewOrganizationHandler(store OrganizationStore, recorder *audit.Recorder) *OrganizationHandler {
	return &OrganizationHandler{store: store, audit: recorder}
}

// Create adds a new organization.
func (h *OrganizationHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req schema.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "organization", err)
	}
	req.Defaults()

	org := req.ToModel()
	ctx := c.Request().Context()
	if err := h.store.Create(ctx, &org); err != nil {
		log.Error("failed to create organization", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("organization", "create")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "organization", org.ID)
	}
	log.Info("organization created", zap.String("organization_id", org.ID.String()))
	return respondOK(c, http.StatusCreated, org)
}

// Get returns one organization by id.
func (h *OrganizationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid organization id")
	}

	org, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "organization not found")
		}
		logger.FromEcho(c).Error("failed to load organization", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("organization", "get")
	return respondOK(c, http.StatusOK, org)
}

// List returns one page of organizations matching the query filters.
func (h *OrganizationHandler) List(c echo.Context) error {
	var req schema.SearchOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "organization", err)
	}
	req.Defaults()

	filter := repository.OrganizationFilter{
		Query:          strVal(req.Query),
		Type:           strVal(req.Type),
		Priority:       strVal(req.Priority),
		Segment:        strVal(req.Segment),
		AssignedUserID: uuidPtr(req.AssignedUserID),
		IsActive:       req.IsActive,
		Limit:          *req.Limit,
		Offset:         *req.Offset,
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search organizations", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("organization", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update. Omitted fields keep their stored
// values.
func (h *OrganizationHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid organization id")
	}

	var req schema.UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "organization", err)
	}

	ctx := c.Request().Context()
	org, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "organization not found")
		}
		log.Error("failed to load organization", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	req.Apply(org)
	if err := h.store.Save(ctx, org); err != nil {
		log.Error("failed to update organization", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("organization", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "organization", org.ID)
	}
	log.Info("organization updated", zap.String("organization_id", org.ID.String()))
	return respondOK(c, http.StatusOK, org)
}

// Delete soft deletes one organization.
func (h *OrganizationHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid organization id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "organization not found")
		}
		log.Error("failed to delete organization", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("organization", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "organization", id)
	}
	log.Info("organization deleted", zap.String("organization_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "organization deleted"})
}
