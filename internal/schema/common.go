package schema

import (
	"time"

	"github.com/google/uuid"
)

// Pagination bounds shared by every search schema. Requests may override
// them within the declared range; out-of-range values are rejected, never
// clamped.
const (
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultOffset = 0
)

const (
	timestampLayout = time.RFC3339
	dateLayout      = "2006-01-02"
)

func defaultLimit(v *int) *int {
	if v != nil {
		return v
	}
	d := DefaultLimit
	return &d
}

func defaultOffset(v *int) *int {
	if v != nil {
		return v
	}
	d := DefaultOffset
	return &d
}

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

// parseUUID converts an already-validated UUID string. A zero UUID is
// returned for input that never passed the uuid rule.
func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id := parseUUID(*s)
	return &id
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimestampPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTimestamp(*s)
	return &t
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
