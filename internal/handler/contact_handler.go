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

// ContactStore is the persistence surface the contact endpoints need.
type ContactStore interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	Save(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.ContactFilter) ([]model.Contact, int64, error)
}

// ContactHandler serves the contact CRUD endpoints.
type ContactHandler struct {
	store ContactStore
	audit *audit.Recorder
}

// NewContactHandler creates the contact handler.
func NewContactHandler(store ContactStore, recorder *audit.Recorder) *ContactHandler {
	return &ContactHandler{store: store, audit: recorder}
}

// Create adds a new contact under an organization. Referential
// consistency of organization_id is left to the database constraint.
func (h *ContactHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req schema.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "contact", err)
	}
	req.Defaults()

	contact := req.ToModel()
	ctx := c.Request().Context()
	if err := h.store.Create(ctx, &contact); err != nil {
		log.Error("failed to create contact", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("contact", "create")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "contact", contact.ID)
	}
	log.Info("contact created", zap.String("contact_id", contact.ID.String()))
	return respondOK(c, http.StatusCreated, contact)
}

// Get returns one contact by id.
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid contact id")
	}

	contact, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "contact not found")
		}
		logger.FromEcho(c).Error("failed to load contact", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("contact", "get")
	return respondOK(c, http.StatusOK, contact)
}

// List returns one page of contacts matching the query filters.
func (h *ContactHandler) List(c echo.Context) error {
	var req schema.SearchContactRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "contact", err)
	}
	req.Defaults()

	filter := repository.ContactFilter{
		Query:          strVal(req.Query),
		OrganizationID: uuidPtr(req.OrganizationID),
		IsPrimary:      req.IsPrimary,
		Limit:          *req.Limit,
		Offset:         *req.Offset,
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search contacts", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("contact", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update to one contact.
func (h *ContactHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid contact id")
	}

	var req schema.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "contact", err)
	}

	ctx := c.Request().Context()
	contact, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "contact not found")
		}
		log.Error("failed to load contact", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	req.Apply(contact)
	if err := h.store.Save(ctx, contact); err != nil {
		log.Error("failed to update contact", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("contact", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "contact", contact.ID)
	}
	log.Info("contact updated", zap.String("contact_id", contact.ID.String()))
	return respondOK(c, http.StatusOK, contact)
}

// Delete soft deletes one contact.
func (h *ContactHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid contact id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "contact not found")
		}
		log.Error("failed to delete contact", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("contact", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "contact", id)
	}
	log.Info("contact deleted", zap.String("contact_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "contact deleted"})
}
