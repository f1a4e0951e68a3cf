package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/middleware"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/repository"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/schema"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = schema.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser attaches an authenticated identity the way the auth middleware
// would.
func asUser(c echo.Context, role model.Role) uuid.UUID {
	id := uuid.New()
	c.Set("auth", &middleware.AuthContext{
		UserID: id,
		Email:  "caller@example.com",
		Role:   role,
	})
	return id
}

// asExistingUser attaches the identity of a seeded user row.
func asExistingUser(c echo.Context, user *model.User) {
	c.Set("auth", &middleware.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func dataField(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("body has no data object: %v", body)
	}
	return data
}

// errorFields extracts the field names of a 400 validation body.
func errorFields(t *testing.T, body map[string]interface{}) map[string]string {
	t.Helper()
	raw, ok := body["errors"].([]interface{})
	if !ok {
		t.Fatalf("body has no errors array: %v", body)
	}
	out := make(map[string]string, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			t.Fatalf("malformed error entry: %v", item)
		}
		out[entry["field"].(string)] = entry["message"].(string)
	}
	return out
}

type fakeUserStore struct {
	byID      map[uuid.UUID]*model.User
	byEmail   map[string]*model.User
	createErr error
	saveErr   error
	deleted   []uuid.UUID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserStore) add(user *model.User) *model.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(user)
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Save(ctx context.Context, user *model.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, user.Email)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) Search(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(f.byID))
	for _, user := range f.byID {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

type fakeOrgStore struct {
	rows        map[uuid.UUID]*model.Organization
	searchRows  []model.Organization
	searchTotal int64
	lastFilter  repository.OrganizationFilter
	createErr   error
}

func newFakeOrgStore() *fakeOrgStore {
	return &fakeOrgStore{rows: make(map[uuid.UUID]*model.Organization)}
}

func (f *fakeOrgStore) Create(ctx context.Context, org *model.Organization) error {
	if f.createErr != nil {
		return f.createErr
	}
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	f.rows[org.ID] = org
	return nil
}

func (f *fakeOrgStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (f *fakeOrgStore) Save(ctx context.Context, org *model.Organization) error {
	f.rows[org.ID] = org
	return nil
}

func (f *fakeOrgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeOrgStore) Search(ctx context.Context, filter repository.OrganizationFilter) ([]model.Organization, int64, error) {
	f.lastFilter = filter
	return f.searchRows, f.searchTotal, nil
}

type fakeProductStore struct {
	rows       map[uuid.UUID]*model.Product
	bySKU      map[string]*model.Product
	lastFilter repository.ProductFilter
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		rows:  make(map[uuid.UUID]*model.Product),
		bySKU: make(map[string]*model.Product),
	}
}

func (f *fakeProductStore) add(product *model.Product) *model.Product {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.rows[product.ID] = product
	f.bySKU[product.SKU] = product
	return product
}

func (f *fakeProductStore) Create(ctx context.Context, product *model.Product) error {
	f.add(product)
	return nil
}

func (f *fakeProductStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeProductStore) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	product, ok := f.bySKU[sku]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeProductStore) Save(ctx context.Context, product *model.Product) error {
	f.rows[product.ID] = product
	f.bySKU[product.SKU] = product
	return nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	product, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	delete(f.bySKU, product.SKU)
	return nil
}

func (f *fakeProductStore) Search(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	f.lastFilter = filter
	out := make([]model.Product, 0, len(f.rows))
	for _, product := range f.rows {
		if filter.IsActive != nil && product.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}
