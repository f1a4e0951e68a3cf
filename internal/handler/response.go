package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/schema"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"github.com/labstack/echo/v4"
)

// Response envelopes. Success and validation failure carry the
// success/data/errors/meta shape; authentication, authorization, and
// other single-message failures carry {message, statusCode}.

func meta() echo.Map {
	return echo.Map{"timestamp": time.Now().UTC().Format(time.RFC3339)}
}

func respondOK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
		"meta":    meta(),
	})
}

func respondList(c echo.Context, data interface{}, total int64, limit, offset int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
		"meta": echo.Map{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"total":     total,
			"limit":     limit,
			"offset":    offset,
		},
	})
}

// respondValidation translates a schema failure into the 400 contract:
// every violated field is listed, not just the first.
func respondValidation(c echo.Context, entity string, err error) error {
	verr, ok := schema.AsValidationError(err)
	if !ok {
		return respondMessage(c, http.StatusInternalServerError, "internal error")
	}
	prometheus.RecordValidationFailure(entity)
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"errors":  verr.Fields,
		"meta":    meta(),
	})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"message":    message,
		"statusCode": status,
	})
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// uuidPtr converts an already-validated UUID string parameter.
func uuidPtr(p *string) *uuid.UUID {
	if p == nil || *p == "" {
		return nil
	}
	id, err := uuid.Parse(*p)
	if err != nil {
		return nil
	}
	return &id
}
