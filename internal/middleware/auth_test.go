package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/identity"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type stubVerifier struct {
	ident *identity.Identity
	err   error
	delay time.Duration
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.ident, nil
}

type stubUsers struct {
	users map[uuid.UUID]*model.User
	err   error
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func activeUser(role model.Role) (*model.User, *identity.Identity) {
	id := uuid.New()
	user := &model.User{
		ID:       id,
		Email:    "user@example.com",
		Role:     role,
		IsActive: true,
	}
	return user, &identity.Identity{UserID: id, Email: user.Email}
}

// run sends one request through the middleware chain and reports
// whether the inner handler ran and what identity it observed.
func run(t *testing.T, header string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool, *AuthContext) {
	t.Helper()
	e := echo.New()
	called := false
	var seen *AuthContext
	handler := func(c echo.Context) error {
		called = true
		seen = CurrentUser(c)
		return c.String(http.StatusOK, "ok")
	}
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/organizations", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, called, seen
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) (string, int) {
	t.Helper()
	var body struct {
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message, body.StatusCode
}

func TestRequiredMissingToken(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{}, &stubUsers{}, 0, nil)

	rec, called, _ := run(t, "", a.Required())
	if called {
		t.Fatal("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	msg, code := decodeMessage(t, rec)
	if msg != "authentication required" || code != 401 {
		t.Errorf("body = %q/%d", msg, code)
	}
}

func TestRequiredMalformedHeader(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{}, &stubUsers{}, 0, nil)

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		rec, called, _ := run(t, header, a.Required())
		if called {
			t.Errorf("header %q: handler must not run", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
		msg, _ := decodeMessage(t, rec)
		if msg != "invalid authorization format, expected Bearer token" {
			t.Errorf("header %q: message = %q", header, msg)
		}
	}
}

func TestRequiredVerifierRejection(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{err: identity.ErrTokenRejected}, &stubUsers{}, 0, nil)

	rec, called, _ := run(t, "Bearer bad-token", a.Required())
	if called {
		t.Fatal("handler must not run with a rejected token")
	}
	msg, code := decodeMessage(t, rec)
	if msg != "invalid or expired token" || code != 401 {
		t.Errorf("body = %q/%d", msg, code)
	}
}

func TestRequiredVerifierTimeoutDenies(t *testing.T) {
	user, ident := activeUser(model.RoleSalesRep)
	verifier := &stubVerifier{ident: ident, delay: 200 * time.Millisecond}
	users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
	a := NewAuthenticator(verifier, users, 20*time.Millisecond, nil)

	start := time.Now()
	rec, called, _ := run(t, "Bearer slow-token", a.Required())
	if called {
		t.Fatal("a timed-out verification must deny access")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("request was not cut off by the deadline, took %v", elapsed)
	}
}

func TestRequiredProfileNotFound(t *testing.T) {
	_, ident := activeUser(model.RoleSalesRep)
	a := NewAuthenticator(&stubVerifier{ident: ident}, &stubUsers{users: map[uuid.UUID]*model.User{}}, 0, nil)

	rec, called, _ := run(t, "Bearer orphan-token", a.Required())
	if called {
		t.Fatal("a verified token without a profile must deny access")
	}
	msg, code := decodeMessage(t, rec)
	if msg != "user not recognized" || code != 401 {
		t.Errorf("body = %q/%d", msg, code)
	}
}

func TestRequiredInactiveUser(t *testing.T) {
	user, ident := activeUser(model.RoleManager)
	user.IsActive = false
	users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
	a := NewAuthenticator(&stubVerifier{ident: ident}, users, 0, nil)

	rec, called, _ := run(t, "Bearer token", a.Required())
	if called {
		t.Fatal("a deactivated user must be denied")
	}
	msg, _ := decodeMessage(t, rec)
	if msg != "user not recognized" {
		t.Errorf("message = %q", msg)
	}
}

func TestRequiredProfileLookupError(t *testing.T) {
	_, ident := activeUser(model.RoleAdmin)
	a := NewAuthenticator(&stubVerifier{ident: ident}, &stubUsers{err: errors.New("connection refused")}, 0, nil)

	rec, called, _ := run(t, "Bearer token", a.Required())
	if called {
		t.Fatal("a failed profile lookup must deny access")
	}
	msg, _ := decodeMessage(t, rec)
	if msg != "authentication failed" {
		t.Errorf("message = %q", msg)
	}
}

func TestRequiredAttachesIdentity(t *testing.T) {
	user, ident := activeUser(model.RoleSalesRep)
	users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
	a := NewAuthenticator(&stubVerifier{ident: ident}, users, 0, nil)

	// Scheme matching is case-insensitive.
	for _, header := range []string{"Bearer good-token", "bearer good-token"} {
		rec, called, seen := run(t, header, a.Required())
		if !called {
			t.Fatalf("header %q: handler should run", header)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("header %q: status = %d", header, rec.Code)
		}
		if seen == nil || seen.UserID != user.ID || seen.Role != model.RoleSalesRep {
			t.Errorf("header %q: identity = %+v", header, seen)
		}
	}
}

func TestOptionalWithoutHeader(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{err: errors.New("should not be called")}, &stubUsers{}, 0, nil)

	rec, called, seen := run(t, "", a.Optional())
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("anonymous request should pass, called=%v status=%d", called, rec.Code)
	}
	if seen != nil {
		t.Errorf("identity should be nil, got %+v", seen)
	}
}

func TestOptionalBadTokenDegradesToAnonymous(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{err: identity.ErrTokenRejected}, &stubUsers{}, 0, nil)

	rec, called, seen := run(t, "Bearer expired", a.Optional())
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("bad token on an optional route should degrade, called=%v status=%d", called, rec.Code)
	}
	if seen != nil {
		t.Errorf("identity should be nil, got %+v", seen)
	}
}

func TestOptionalGoodTokenAttachesIdentity(t *testing.T) {
	user, ident := activeUser(model.RoleReadOnly)
	users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
	a := NewAuthenticator(&stubVerifier{ident: ident}, users, 0, nil)

	_, called, seen := run(t, "Bearer good-token", a.Optional())
	if !called {
		t.Fatal("handler should run")
	}
	if seen == nil || seen.UserID != user.ID {
		t.Errorf("identity = %+v", seen)
	}
}

func TestRoleAllowed(t *testing.T) {
	writeRoles := []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSalesRep}
	deleteRoles := []model.Role{model.RoleAdmin, model.RoleManager}
	adminOnly := []model.Role{model.RoleAdmin}

	cases := []struct {
		role    model.Role
		allowed []model.Role
		want    bool
	}{
		{model.RoleAdmin, writeRoles, true},
		{model.RoleManager, writeRoles, true},
		{model.RoleSalesRep, writeRoles, true},
		{model.RoleReadOnly, writeRoles, false},

		{model.RoleAdmin, deleteRoles, true},
		{model.RoleManager, deleteRoles, true},
		{model.RoleSalesRep, deleteRoles, false},
		{model.RoleReadOnly, deleteRoles, false},

		{model.RoleAdmin, adminOnly, true},
		{model.RoleManager, adminOnly, false},
		{model.RoleSalesRep, adminOnly, false},
		{model.RoleReadOnly, adminOnly, false},

		{model.RoleAdmin, nil, true},
		{model.RoleReadOnly, nil, true},
	}
	for _, tc := range cases {
		if got := RoleAllowed(tc.role, tc.allowed); got != tc.want {
			t.Errorf("RoleAllowed(%s, %v) = %v, want %v", tc.role, tc.allowed, got, tc.want)
		}
	}
}

func TestRequireRoleForbidsAndAdmits(t *testing.T) {
	user, ident := activeUser(model.RoleReadOnly)
	users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
	a := NewAuthenticator(&stubVerifier{ident: ident}, users, 0, nil)

	writeGate := a.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep)

	rec, called, _ := run(t, "Bearer token", a.Required(), writeGate)
	if called {
		t.Fatal("read_only must not pass the write gate")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	msg, code := decodeMessage(t, rec)
	if msg != "insufficient permissions" || code != 403 {
		t.Errorf("body = %q/%d", msg, code)
	}

	// Same route, reads have no role gate.
	_, called, _ = run(t, "Bearer token", a.Required(), a.RequireRole())
	if !called {
		t.Error("read_only should pass an ungated route")
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	a := NewAuthenticator(&stubVerifier{}, &stubUsers{}, 0, nil)

	rec, called, _ := run(t, "", a.RequireRole(model.RoleAdmin))
	if called {
		t.Fatal("role gate without identity must deny")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRolePerRole(t *testing.T) {
	deleteGate := []model.Role{model.RoleAdmin, model.RoleManager}
	cases := []struct {
		role model.Role
		pass bool
	}{
		{model.RoleAdmin, true},
		{model.RoleManager, true},
		{model.RoleSalesRep, false},
		{model.RoleReadOnly, false},
	}
	for _, tc := range cases {
		user, ident := activeUser(tc.role)
		users := &stubUsers{users: map[uuid.UUID]*model.User{user.ID: user}}
		a := NewAuthenticator(&stubVerifier{ident: ident}, users, 0, nil)

		rec, called, _ := run(t, "Bearer token", a.Required(), a.RequireRole(deleteGate...))
		if called != tc.pass {
			t.Errorf("role %s: called = %v, want %v", tc.role, called, tc.pass)
		}
		if !tc.pass && rec.Code != http.StatusForbidden {
			t.Errorf("role %s: status = %d, want 403", tc.role, rec.Code)
		}
	}
}
