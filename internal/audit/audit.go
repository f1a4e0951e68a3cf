// Package audit records security-relevant events to the database and the
// structured log, controlled per category by configuration.
package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Event types recorded by the application.
const (
	EventLoginSuccess    = "login_success"
	EventLoginFailure    = "login_failure"
	EventUserRegistered  = "user_registered"
	EventPasswordChanged = "password_changed"
	EventAccessDenied    = "access_denied"
	EventRateLimited     = "rate_limited"
	EventEntityCreated   = "entity_created"
	EventEntityUpdated   = "entity_updated"
	EventEntityDeleted   = "entity_deleted"
)

// Store persists audit events.
type Store struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed audit event store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save writes one event row.
func (s *Store) Save(ctx context.Context, event *model.AuditEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

// Recorder writes audit events to the configured sinks. A nil Recorder
// is a no-op so tests can leave auditing unwired.
type Recorder struct {
	store  *Store
	zapLog *zap.Logger
	config config.AuditConfig
}

// NewRecorder creates a Recorder over the given store and logger.
func NewRecorder(store *Store, zapLog *zap.Logger, cfg config.AuditConfig) *Recorder {
	return &Recorder{
		store:  store,
		zapLog: zapLog,
		config: cfg,
	}
}

// Record routes one event to the sinks its category mode selects.
// Persistence failures are logged, never surfaced to the request.
func (r *Recorder) Record(ctx context.Context, event model.AuditEvent) {
	if r == nil {
		return
	}

	var mode string
	switch event.Category {
	case model.AuditCategoryAuth:
		mode = r.config.Auth
	case model.AuditCategoryAdmin:
		mode = r.config.Admin
	default:
		mode = "all"
	}

	if mode == "off" {
		return
	}

	if mode == "all" || mode == "log" {
		r.logToZap(event)
	}

	if (mode == "all" || mode == "db") && r.store != nil {
		if err := r.store.Save(ctx, &event); err != nil {
			r.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (r *Recorder) logToZap(event model.AuditEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.String()))
	}
	if event.ActorEmail != "" {
		fields = append(fields, zap.String("actor_email", event.ActorEmail))
	}
	if event.EntityType != "" {
		fields = append(fields, zap.String("entity_type", event.EntityType))
	}
	if event.EntityID != nil {
		fields = append(fields, zap.String("entity_id", event.EntityID.String()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.String()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		r.zapLog.Info("audit event", fields...)
	} else {
		r.zapLog.Warn("audit event", fields...)
	}
}

// LoginSucceeded records a successful credential login.
func (r *Recorder) LoginSucceeded(ctx context.Context, ip, userAgent string, user *model.User) {
	r.Record(ctx, model.AuditEvent{
		Category:       model.AuditCategoryAuth,
		EventType:      EventLoginSuccess,
		Success:        true,
		ActorID:        &user.ID,
		ActorEmail:     user.Email,
		OrganizationID: user.OrganizationID,
		IP:             ip,
		UserAgent:      userAgent,
	})
}

// LoginFailed records a rejected credential login.
func (r *Recorder) LoginFailed(ctx context.Context, ip, userAgent, email, reason string) {
	r.Record(ctx, model.AuditEvent{
		Category:      model.AuditCategoryAuth,
		EventType:     EventLoginFailure,
		Success:       false,
		ActorEmail:    email,
		IP:            ip,
		UserAgent:     userAgent,
		FailureReason: reason,
	})
}

// UserRegistered records a self-registration.
func (r *Recorder) UserRegistered(ctx context.Context, ip, userAgent string, user *model.User) {
	r.Record(ctx, model.AuditEvent{
		Category:   model.AuditCategoryAuth,
		EventType:  EventUserRegistered,
		Success:    true,
		ActorID:    &user.ID,
		ActorEmail: user.Email,
		IP:         ip,
		UserAgent:  userAgent,
	})
}

// PasswordChanged records a completed password rotation.
func (r *Recorder) PasswordChanged(ctx context.Context, ip, userAgent string, user *model.User) {
	r.Record(ctx, model.AuditEvent{
		Category:   model.AuditCategoryAuth,
		EventType:  EventPasswordChanged,
		Success:    true,
		ActorID:    &user.ID,
		ActorEmail: user.Email,
		IP:         ip,
		UserAgent:  userAgent,
	})
}

// AccessDenied records a role-gate rejection.
func (r *Recorder) AccessDenied(ctx context.Context, ip, userAgent string, actorID uuid.UUID, role, path string) {
	id := actorID
	r.Record(ctx, model.AuditEvent{
		Category:      model.AuditCategoryAuth,
		EventType:     EventAccessDenied,
		Success:       false,
		ActorID:       &id,
		IP:            ip,
		UserAgent:     userAgent,
		FailureReason: "insufficient permissions",
		Details: map[string]string{
			"role": role,
			"path": path,
		},
	})
}

// RateLimited records a throttled request.
func (r *Recorder) RateLimited(ctx context.Context, ip, userAgent, email string) {
	r.Record(ctx, model.AuditEvent{
		Category:      model.AuditCategoryAuth,
		EventType:     EventRateLimited,
		Success:       false,
		ActorEmail:    email,
		IP:            ip,
		UserAgent:     userAgent,
		FailureReason: "rate limit exceeded",
	})
}

// EntityCreated records an admin-category create of a CRM entity.
func (r *Recorder) EntityCreated(ctx context.Context, ip string, actorID uuid.UUID, entityType string, entityID uuid.UUID) {
	r.entityEvent(ctx, EventEntityCreated, ip, actorID, entityType, entityID)
}

// EntityUpdated records an admin-category update of a CRM entity.
func (r *Recorder) EntityUpdated(ctx context.Context, ip string, actorID uuid.UUID, entityType string, entityID uuid.UUID) {
	r.entityEvent(ctx, EventEntityUpdated, ip, actorID, entityType, entityID)
}

// EntityDeleted records an admin-category soft delete of a CRM entity.
func (r *Recorder) EntityDeleted(ctx context.Context, ip string, actorID uuid.UUID, entityType string, entityID uuid.UUID) {
	r.entityEvent(ctx, EventEntityDeleted, ip, actorID, entityType, entityID)
}

func (r *Recorder) entityEvent(ctx context.Context, eventType, ip string, actorID uuid.UUID, entityType string, entityID uuid.UUID) {
	actor := actorID
	entity := entityID
	r.Record(ctx, model.AuditEvent{
		Category:   model.AuditCategoryAdmin,
		EventType:  eventType,
		Success:    true,
		ActorID:    &actor,
		EntityType: entityType,
		EntityID:   &entity,
		IP:         ip,
	})
}
