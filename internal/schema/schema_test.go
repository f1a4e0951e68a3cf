package schema

import (
	"strings"
	"testing"
)

func fieldMessage(t *testing.T, err error, field string) string {
	t.Helper()
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range verr.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	t.Fatalf("no error reported for field %q, got %+v", field, verr.Fields)
	return ""
}

func hasField(err error, field string) bool {
	verr, ok := AsValidationError(err)
	if !ok {
		return false
	}
	for _, f := range verr.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCollectsAllViolations(t *testing.T) {
	v := New()
	req := CreateOrganizationRequest{
		Name:     "",
		Email:    "not-an-email",
		Phone:    "abc",
		Priority: "urgent",
	}

	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %+v", len(verr.Fields), verr.Fields)
	}

	if msg := fieldMessage(t, err, "name"); msg != "is required" {
		t.Errorf("name message = %q", msg)
	}
	if msg := fieldMessage(t, err, "email"); msg != "must be a valid email address" {
		t.Errorf("email message = %q", msg)
	}
	if msg := fieldMessage(t, err, "phone"); msg != "must be a valid phone number" {
		t.Errorf("phone message = %q", msg)
	}
	if msg := fieldMessage(t, err, "priority"); msg != "must be one of: low, medium, high" {
		t.Errorf("priority message = %q", msg)
	}
}

func TestValidateMinimalCreateOrganization(t *testing.T) {
	v := New()
	req := CreateOrganizationRequest{Name: "Golden Gate Catering"}
	if err := v.Validate(&req); err != nil {
		t.Fatalf("name-only payload should be valid, got %v", err)
	}
}

func TestNestedAddressFieldPath(t *testing.T) {
	v := New()
	req := CreateOrganizationRequest{
		Name: "Bay Grocers",
		Address: &AddressRequest{
			ZipCode: strings.Repeat("9", 21),
		},
	}

	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if msg := fieldMessage(t, err, "address.zip_code"); msg != "must be at most 20 characters" {
		t.Errorf("address.zip_code message = %q", msg)
	}
}

func TestPhoneRule(t *testing.T) {
	v := New()

	valid := []string{
		"+1 (555) 123-4567",
		"555-123-4567",
		"5551234",
		"+49 30 901820",
	}
	for _, phone := range valid {
		req := CreateOrganizationRequest{Name: "x", Phone: phone}
		if err := v.Validate(&req); err != nil {
			t.Errorf("phone %q should be valid, got %v", phone, err)
		}
	}

	invalid := []string{
		"123456",              // too few digits
		"call me",             // letters
		"555_123_4567",        // underscore not in grammar
		"+1 555 123 4567 ext", // letters after digits
		strings.Repeat("9", 21),
	}
	for _, phone := range invalid {
		req := CreateOrganizationRequest{Name: "x", Phone: phone}
		err := v.Validate(&req)
		if err == nil || !hasField(err, "phone") {
			t.Errorf("phone %q should be rejected", phone)
		}
	}
}

func TestCurrencyRule(t *testing.T) {
	v := New()

	for _, value := range []float64{0, 10, 10.5, 10.99, 1234567.89} {
		req := CreateOpportunityRequest{
			Name:           "Q3 produce contract",
			OrganizationID: "0b879de3-c4f3-4274-be9a-15e4af14c01c",
			Value:          value,
		}
		if err := v.Validate(&req); err != nil {
			t.Errorf("value %v should be valid, got %v", value, err)
		}
	}

	// Binary float residue from a clean two-decimal amount must not be
	// rejected.
	req := CreateOpportunityRequest{
		Name:           "Q3 produce contract",
		OrganizationID: "0b879de3-c4f3-4274-be9a-15e4af14c01c",
		Value:          0.1 + 0.2,
	}
	if err := v.Validate(&req); err != nil {
		t.Errorf("0.1+0.2 should pass the currency rule, got %v", err)
	}

	for _, value := range []float64{10.999, 0.001, 99.123} {
		req := CreateOpportunityRequest{
			Name:           "Q3 produce contract",
			OrganizationID: "0b879de3-c4f3-4274-be9a-15e4af14c01c",
			Value:          value,
		}
		err := v.Validate(&req)
		if err == nil || !hasField(err, "value") {
			t.Errorf("value %v should be rejected", value)
			continue
		}
		if msg := fieldMessage(t, err, "value"); msg != "must have at most two decimal places" {
			t.Errorf("value message = %q", msg)
		}
	}

	// The rule applies through pointer fields too, so partial updates
	// cannot smuggle in fractional cents.
	update := UpdateProductRequest{UnitPrice: floatPtr(4.999)}
	if err := v.Validate(&update); err == nil || !hasField(err, "unit_price") {
		t.Errorf("pointer unit_price 4.999 should be rejected, got %v", err)
	}
}

func TestPasswordConfirmationReportedAgainstConfirmField(t *testing.T) {
	v := New()
	req := ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "brand-new-password",
		ConfirmPassword: "different-password",
	}

	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if hasField(err, "new_password") {
		t.Error("mismatch must not be attributed to new_password")
	}
	if msg := fieldMessage(t, err, "confirm_password"); msg != "must match new_password" {
		t.Errorf("confirm_password message = %q", msg)
	}
}

func TestUUIDFormat(t *testing.T) {
	v := New()
	req := CreateInteractionRequest{
		OrganizationID: "not-a-uuid",
		ContactID:      "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		Type:           "call",
		Subject:        "intro call",
	}

	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if msg := fieldMessage(t, err, "organization_id"); msg != "must be a valid UUID" {
		t.Errorf("organization_id message = %q", msg)
	}
	if hasField(err, "contact_id") {
		t.Error("valid contact_id should not be reported")
	}
}

func TestTimestampAndDateFormats(t *testing.T) {
	v := New()

	interaction := CreateInteractionRequest{
		OrganizationID:  "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		ContactID:       "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		Type:            "meeting",
		Subject:         "tasting session",
		InteractionDate: "13/01/2025",
	}
	err := v.Validate(&interaction)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if msg := fieldMessage(t, err, "interaction_date"); msg != "must be an RFC 3339 timestamp" {
		t.Errorf("interaction_date message = %q", msg)
	}

	opp := CreateOpportunityRequest{
		Name:              "expansion deal",
		OrganizationID:    "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		ExpectedCloseDate: "2025-13-45",
	}
	err = v.Validate(&opp)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if msg := fieldMessage(t, err, "expected_close_date"); msg != "must be a date in YYYY-MM-DD format" {
		t.Errorf("expected_close_date message = %q", msg)
	}
}

func TestPaginationBounds(t *testing.T) {
	v := New()

	t.Run("limit above maximum is rejected, not clamped", func(t *testing.T) {
		req := SearchOrganizationRequest{Limit: intPtr(500)}
		err := v.Validate(&req)
		if err == nil {
			t.Fatal("expected validation to fail")
		}
		if msg := fieldMessage(t, err, "limit"); msg != "must be at most 100" {
			t.Errorf("limit message = %q", msg)
		}
	})

	t.Run("explicit zero limit is rejected", func(t *testing.T) {
		req := SearchOrganizationRequest{Limit: intPtr(0)}
		err := v.Validate(&req)
		if err == nil {
			t.Fatal("expected validation to fail")
		}
		if msg := fieldMessage(t, err, "limit"); msg != "must be greater than 0" {
			t.Errorf("limit message = %q", msg)
		}
	})

	t.Run("negative offset is rejected", func(t *testing.T) {
		req := SearchOrganizationRequest{Offset: intPtr(-1)}
		err := v.Validate(&req)
		if err == nil {
			t.Fatal("expected validation to fail")
		}
		if msg := fieldMessage(t, err, "offset"); msg != "must be at least 0" {
			t.Errorf("offset message = %q", msg)
		}
	})

	t.Run("omitted bounds default to 10 and 0", func(t *testing.T) {
		req := SearchOrganizationRequest{}
		if err := v.Validate(&req); err != nil {
			t.Fatalf("empty search should be valid, got %v", err)
		}
		req.Defaults()
		if *req.Limit != DefaultLimit || *req.Offset != DefaultOffset {
			t.Errorf("defaults = %d/%d, want %d/%d", *req.Limit, *req.Offset, DefaultLimit, DefaultOffset)
		}
	})

	t.Run("explicit bounds survive defaulting", func(t *testing.T) {
		req := SearchOrganizationRequest{Limit: intPtr(25), Offset: intPtr(50)}
		if err := v.Validate(&req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req.Defaults()
		if *req.Limit != 25 || *req.Offset != 50 {
			t.Errorf("bounds = %d/%d, want 25/50", *req.Limit, *req.Offset)
		}
	})
}

func TestOneofMessageListsChoices(t *testing.T) {
	v := New()
	req := CreateOrganizationRequest{Name: "x", Type: "bodega"}
	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	want := "must be one of: restaurant, grocery, distributor, catering, institutional, other"
	if msg := fieldMessage(t, err, "type"); msg != want {
		t.Errorf("type message = %q, want %q", msg, want)
	}
}

func TestRoleChoices(t *testing.T) {
	v := New()
	req := CreateUserRequest{
		Email:     "rep@example.com",
		Password:  "longenough1",
		FirstName: "Sam",
		LastName:  "Field",
		Role:      "superuser",
	}
	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if msg := fieldMessage(t, err, "role"); msg != "must be one of: admin, manager, sales_rep, read_only" {
		t.Errorf("role message = %q", msg)
	}
}
