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

// InteractionStore is the persistence surface the interaction endpoints
// need.
type InteractionStore interface {
	Create(ctx context.Context, interaction *model.Interaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Interaction, error)
	Save(ctx context.Context, interaction *model.Interaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.InteractionFilter) ([]model.Interaction, int64, error)
}

// InteractionHandler serves the interaction CRUD endpoints.
type InteractionHandler struct {
	store InteractionStore
	audit *audit.Recorder
}

// NewInteractionHandler creates the interaction handler.
func NewInteractionHandler(store InteractionStore, recorder *audit.Recorder) *InteractionHandler {
	return &InteractionHandler{store: store, audit: recorder}
}

// Create logs a touchpoint. The row is attributed to the authenticated
// caller regardless of what the payload carries.
func (h *InteractionHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	auth := middleware.CurrentUser(c)
	if auth == nil {
		return respondMessage(c, http.StatusUnauthorized, "authentication required")
	}

	var req schema.CreateInteractionRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "interaction", err)
	}

	interaction := req.ToModel(auth.UserID)
	ctx := c.Request().Context()
	if err := h.store.Create(ctx, &interaction); err != nil {
		log.Error("failed to create interaction", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("interaction", "create")
	h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "interaction", interaction.ID)
	log.Info("interaction created",
		zap.String("interaction_id", interaction.ID.String()),
		zap.String("type", interaction.Type),
	)
	return respondOK(c, http.StatusCreated, interaction)
}

// Get returns one interaction by id.
func (h *InteractionHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid interaction id")
	}

	interaction, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "interaction not found")
		}
		logger.FromEcho(c).Error("failed to load interaction", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("interaction", "get")
	return respondOK(c, http.StatusOK, interaction)
}

// List returns one page of interactions matching the query filters.
func (h *InteractionHandler) List(c echo.Context) error {
	var req schema.SearchInteractionRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "interaction", err)
	}
	req.Defaults()

	filter := repository.InteractionFilter{
		Query:          strVal(req.Query),
		OrganizationID: uuidPtr(req.OrganizationID),
		ContactID:      uuidPtr(req.ContactID),
		Type:           strVal(req.Type),
		Limit:          *req.Limit,
		Offset:         *req.Offset,
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search interactions", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("interaction", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update to one interaction.
func (h *InteractionHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid interaction id")
	}

	var req schema.UpdateInteractionRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "interaction", err)
	}

	ctx := c.Request().Context()
	interaction, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "interaction not found")
		}
		log.Error("failed to load interaction", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	req.Apply(interaction)
	if err := h.store.Save(ctx, interaction); err != nil {
		log.Error("failed to update interaction", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("interaction", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "interaction", interaction.ID)
	}
	log.Info("interaction updated", zap.String("interaction_id", interaction.ID.String()))
	return respondOK(c, http.StatusOK, interaction)
}

// Delete soft deletes one interaction.
func (h *InteractionHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid interaction id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "interaction not found")
		}
		log.Error("failed to delete interaction", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("interaction", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "interaction", id)
	}
	log.Info("interaction deleted", zap.String("interaction_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "interaction deleted"})
}
