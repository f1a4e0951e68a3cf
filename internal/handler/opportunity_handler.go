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

// OpportunityStore is the persistence surface the opportunity endpoints
// need.
type OpportunityStore interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Opportunity, error)
	Save(ctx context.Context, opp *model.Opportunity) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.OpportunityFilter) ([]model.Opportunity, int64, error)
}

// OpportunityHandler serves the sales pipeline CRUD endpoints.
type OpportunityHandler struct {
	store OpportunityStore
	audit *audit.Recorder
}

// NewOpportunityHandler creates the opportunity handler.
func NewOpportunityHandler(store OpportunityStore, recorder *audit.Recorder) *OpportunityHandler {
	return &OpportunityHandler{store: store, audit: recorder}
}

// Create opens a new pipeline record. An omitted stage starts at
// prospecting.
func (h *OpportunityHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req schema.CreateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "opportunity", err)
	}
	req.Defaults()

	opp := req.ToModel()
	ctx := c.Request().Context()
	if err := h.store.Create(ctx, &opp); err != nil {
		log.Error("failed to create opportunity", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("opportunity", "create")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "opportunity", opp.ID)
	}
	log.Info("opportunity created",
		zap.String("opportunity_id", opp.ID.String()),
		zap.String("stage", opp.Stage),
	)
	return respondOK(c, http.StatusCreated, opp)
}

// Get returns one opportunity by id.
func (h *OpportunityHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid opportunity id")
	}

	opp, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "opportunity not found")
		}
		logger.FromEcho(c).Error("failed to load opportunity", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("opportunity", "get")
	return respondOK(c, http.StatusOK, opp)
}

// List returns one page of opportunities matching the query filters.
func (h *OpportunityHandler) List(c echo.Context) error {
	var req schema.SearchOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "opportunity", err)
	}
	req.Defaults()

	filter := repository.OpportunityFilter{
		Query:          strVal(req.Query),
		OrganizationID: uuidPtr(req.OrganizationID),
		AssignedUserID: uuidPtr(req.AssignedUserID),
		Stage:          strVal(req.Stage),
		MinValue:       req.MinValue,
		MaxValue:       req.MaxValue,
		Limit:          *req.Limit,
		Offset:         *req.Offset,
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search opportunities", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("opportunity", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update to one opportunity.
func (h *OpportunityHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid opportunity id")
	}

	var req schema.UpdateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "opportunity", err)
	}

	ctx := c.Request().Context()
	opp, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "opportunity not found")
		}
		log.Error("failed to load opportunity", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	req.Apply(opp)
	if err := h.store.Save(ctx, opp); err != nil {
		log.Error("failed to update opportunity", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("opportunity", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "opportunity", opp.ID)
	}
	log.Info("opportunity updated",
		zap.String("opportunity_id", opp.ID.String()),
		zap.String("stage", opp.Stage),
	)
	return respondOK(c, http.StatusOK, opp)
}

// Delete soft deletes one opportunity.
func (h *OpportunityHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid opportunity id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "opportunity not found")
		}
		log.Error("failed to delete opportunity", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("opportunity", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "opportunity", id)
	}
	log.Info("opportunity deleted", zap.String("opportunity_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "opportunity deleted"})
}
