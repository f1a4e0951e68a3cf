// Package schema declares the request shapes accepted by the HTTP API,
// one struct per entity and operation (create, update, search), and the
// validation engine that checks them. Validation collects every violated
// field in one pass; it never stops at the first failure.
package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of one request. It is
// always recoverable by the caller with a corrected payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Validator is the schema validation engine. It satisfies echo's
// Validator interface so handlers can run c.Validate(req) after binding.
type Validator struct {
	validate *validator.Validate
}

// New builds the engine: field paths use JSON tag names (nested fields
// render dotted, e.g. "address.zip_code"), and the custom phone and
// currency rules are registered alongside the built-ins.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for a blank tag or nil func.
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("currency", validateCurrency)

	return &Validator{validate: v}
}

// Validate checks every declared constraint on the value and returns a
// *ValidationError enumerating all violations, or nil when the value is
// fully valid.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Non-struct input or a broken rule registration. Surfaced as-is;
		// callers treat it as an internal error, not a 400.
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath strips the root struct name from the error namespace so the
// reported path matches the JSON document: "address.zip_code", not
// "CreateOrganizationRequest.address.zip_code".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	case "currency":
		return "must have at most two decimal places"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if isStringy(fe) {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isStringy(fe) {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "eqfield":
		return "must match " + toSnake(fe.Param())
	case "datetime":
		if fe.Param() == dateLayout {
			return "must be a date in YYYY-MM-DD format"
		}
		return "must be an RFC 3339 timestamp"
	default:
		return "is invalid"
	}
}

func isStringy(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String || fe.Kind() == reflect.Slice
}

// toSnake renders a struct field name the way the wire format spells it,
// e.g. NewPassword -> new_password.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var phoneChars = regexp.MustCompile(`^\+?[0-9\s().-]+$`)

// validatePhone accepts a permissive phone grammar: digits, spaces,
// hyphens, parentheses, dots, an optional leading +, and 7 to 20 digits
// overall.
func validatePhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !phoneChars.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 20
}

// validateCurrency accepts monetary amounts with at most two decimal
// places. Sign constraints are declared separately (gte=0).
func validateCurrency(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	cents := v * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}
