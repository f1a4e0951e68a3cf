package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/repository"
	"gorm.io/gorm"
)

type fakeInteractionStore struct {
	rows       map[uuid.UUID]*model.Interaction
	lastFilter repository.InteractionFilter
}

func newFakeInteractionStore() *fakeInteractionStore {
	return &fakeInteractionStore{rows: make(map[uuid.UUID]*model.Interaction)}
}

func (f *fakeInteractionStore) Create(ctx context.Context, interaction *model.Interaction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	f.rows[interaction.ID] = interaction
	return nil
}

func (f *fakeInteractionStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Interaction, error) {
	interaction, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return interaction, nil
}

func (f *fakeInteractionStore) Save(ctx context.Context, interaction *model.Interaction) error {
	f.rows[interaction.ID] = interaction
	return nil
}

func (f *fakeInteractionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeInteractionStore) Search(ctx context.Context, filter repository.InteractionFilter) ([]model.Interaction, int64, error) {
	f.lastFilter = filter
	return nil, 0, nil
}

func TestCreateInteractionRequiresIdentity(t *testing.T) {
	h := NewInteractionHandler(newFakeInteractionStore(), nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/interactions",
		`{"organization_id":"`+uuid.NewString()+`","contact_id":"`+uuid.NewString()+`","type":"call","subject":"Intro call"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "authentication required" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCreateInteractionAttributesCaller(t *testing.T) {
	store := newFakeInteractionStore()
	h := NewInteractionHandler(store, nil)

	orgID := uuid.NewString()
	contactID := uuid.NewString()
	c, rec := newTestContext(t, http.MethodPost, "/api/interactions",
		`{"organization_id":"`+orgID+`","contact_id":"`+contactID+`","type":"meeting","subject":"Quarterly menu review","duration_minutes":45}`)
	callerID := asUser(c, model.RoleSalesRep)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	data := dataField(t, decodeBody(t, rec))
	if data["created_by_user_id"] != callerID.String() {
		t.Errorf("created_by_user_id = %v, want the caller %s", data["created_by_user_id"], callerID)
	}
	if data["organization_id"] != orgID || data["contact_id"] != contactID {
		t.Errorf("scoping = %v/%v", data["organization_id"], data["contact_id"])
	}

	var stored *model.Interaction
	for _, row := range store.rows {
		stored = row
	}
	if stored == nil || stored.CreatedByUserID != callerID {
		t.Fatalf("stored attribution = %+v", stored)
	}
	if stored.InteractionDate.IsZero() {
		t.Error("omitted interaction_date should default to now")
	}
	if time.Since(stored.InteractionDate) > time.Minute {
		t.Errorf("defaulted interaction_date %v is not recent", stored.InteractionDate)
	}
}

func TestCreateInteractionRejectsUnknownType(t *testing.T) {
	h := NewInteractionHandler(newFakeInteractionStore(), nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/interactions",
		`{"organization_id":"`+uuid.NewString()+`","contact_id":"`+uuid.NewString()+`","type":"fax","subject":"x"}`)
	asUser(c, model.RoleSalesRep)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	fields := errorFields(t, decodeBody(t, rec))
	if msg := fields["type"]; msg != "must be one of: call, email, meeting, note, task" {
		t.Errorf("type error = %q", msg)
	}
}

func TestListInteractionsBuildsFilter(t *testing.T) {
	store := newFakeInteractionStore()
	h := NewInteractionHandler(store, nil)

	contactID := uuid.New()
	c, rec := newTestContext(t, http.MethodGet,
		"/api/interactions?contact_id="+contactID.String()+"&type=call&limit=20", "")
	asUser(c, model.RoleReadOnly)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.lastFilter.ContactID == nil || *store.lastFilter.ContactID != contactID {
		t.Errorf("filter.ContactID = %v", store.lastFilter.ContactID)
	}
	if store.lastFilter.Type != "call" || store.lastFilter.Limit != 20 {
		t.Errorf("filter = %+v", store.lastFilter)
	}
}

func TestUpdateInteractionSetsFollowUp(t *testing.T) {
	store := newFakeInteractionStore()
	row := &model.Interaction{
		ID:              uuid.New(),
		OrganizationID:  uuid.New(),
		ContactID:       uuid.New(),
		CreatedByUserID: uuid.New(),
		Type:            model.InteractionCall,
		Subject:         "Intro call",
		InteractionDate: time.Now(),
	}
	store.rows[row.ID] = row
	h := NewInteractionHandler(store, nil)

	c, rec := newTestContext(t, http.MethodPatch, "/api/interactions/"+row.ID.String(),
		`{"follow_up_date":"2026-09-01T09:00:00Z","type":"task"}`)
	c.SetParamNames("id")
	c.SetParamValues(row.ID.String())
	asUser(c, model.RoleSalesRep)
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if row.FollowUpDate == nil || !row.FollowUpDate.Equal(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("follow_up_date = %v", row.FollowUpDate)
	}
	if row.Type != model.InteractionTask {
		t.Errorf("type = %q, want task", row.Type)
	}
	if row.Subject != "Intro call" {
		t.Error("omitted subject must keep its stored value")
	}
}
