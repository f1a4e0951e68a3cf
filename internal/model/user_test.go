package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoleValid(t *testing.T) {
	for _, role := range KnownRoles {
		if !role.Valid() {
			t.Errorf("%q should be valid", role)
		}
	}
	for _, role := range []Role{"", "superuser", "Admin", "sales rep"} {
		if role.Valid() {
			t.Errorf("%q should not be valid", role)
		}
	}
}

func TestUserJSONHidesCredentials(t *testing.T) {
	raw, err := json.Marshal(User{
		Email:        "rep@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         RoleSalesRep,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password_hash") {
		t.Errorf("credentials leaked: %s", raw)
	}
}
