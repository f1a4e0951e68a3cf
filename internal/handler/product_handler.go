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

// ProductStore is the persistence surface the product endpoints need.
type ProductStore interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f repository.ProductFilter) ([]model.Product, int64, error)
}

// ProductHandler serves the catalog endpoints. Reads are open to
// anonymous callers; writes require an authenticated role.
type ProductHandler struct {
	store ProductStore
	audit *audit.Recorder
}

// NewProductHandler creates the product handler.
func NewProductHandler(store ProductStore, recorder *audit.Recorder) *ProductHandler {
	return &ProductHandler{store: store, audit: recorder}
}

// Create adds a new catalog item. SKUs are unique across the catalog.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req schema.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "product", err)
	}
	req.Defaults()

	ctx := c.Request().Context()
	if _, err := h.store.FindBySKU(ctx, req.SKU); err == nil {
		return respondMessage(c, http.StatusConflict, "sku already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to check sku", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	product := req.ToModel()
	if err := h.store.Create(ctx, &product); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("product", "create")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityCreated(ctx, c.RealIP(), auth.UserID, "product", product.ID)
	}
	log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return respondOK(c, http.StatusCreated, product)
}

// Get returns one product by id. Anonymous callers only see active
// items.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid product id")
	}

	product, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "product not found")
		}
		logger.FromEcho(c).Error("failed to load product", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	if middleware.CurrentUser(c) == nil && !product.IsActive {
		return respondMessage(c, http.StatusNotFound, "product not found")
	}

	prometheus.RecordEntityOperation("product", "get")
	return respondOK(c, http.StatusOK, product)
}

// List returns one page of catalog items. Anonymous callers are pinned
// to active items regardless of the is_active filter they send.
func (h *ProductHandler) List(c echo.Context) error {
	var req schema.SearchProductRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "product", err)
	}
	req.Defaults()

	filter := repository.ProductFilter{
		Query:    strVal(req.Query),
		Category: strVal(req.Category),
		IsActive: req.IsActive,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    *req.Limit,
		Offset:   *req.Offset,
	}
	if middleware.CurrentUser(c) == nil {
		active := true
		filter.IsActive = &active
	}

	rows, total, err := h.store.Search(c.Request().Context(), filter)
	if err != nil {
		logger.FromEcho(c).Error("failed to search products", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("product", "list")
	return respondList(c, rows, total, filter.Limit, filter.Offset)
}

// Update applies a partial update. A SKU change is checked against the
// rest of the catalog first.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid product id")
	}

	var req schema.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, "product", err)
	}

	ctx := c.Request().Context()
	product, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "product not found")
		}
		log.Error("failed to load product", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	if req.SKU != nil && *req.SKU != product.SKU {
		if _, err := h.store.FindBySKU(ctx, *req.SKU); err == nil {
			return respondMessage(c, http.StatusConflict, "sku already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to check sku", zap.Error(err))
			return respondMessage(c, http.StatusInternalServerError, "internal error")
		}
	}

	req.Apply(product)
	if err := h.store.Save(ctx, product); err != nil {
		log.Error("failed to update product", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("product", "update")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityUpdated(ctx, c.RealIP(), auth.UserID, "product", product.ID)
	}
	log.Info("product updated", zap.String("product_id", product.ID.String()))
	return respondOK(c, http.StatusOK, product)
}

// Delete soft deletes one catalog item.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid product id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondMessage(c, http.StatusNotFound, "product not found")
		}
		log.Error("failed to delete product", zap.Error(err))
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}

	prometheus.RecordEntityOperation("product", "delete")
	if auth := middleware.CurrentUser(c); auth != nil {
		h.audit.EntityDeleted(ctx, c.RealIP(), auth.UserID, "product", id)
	}
	log.Info("product deleted", zap.String("product_id", id.String()))
	return respondOK(c, http.StatusOK, echo.Map{"message": "product deleted"})
}
