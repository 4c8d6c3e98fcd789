package audit

import (
	"context"
	"time"

	id "protocolo/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers changes to the official record of a process
	// or to who may act on it.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers authentication and access events.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine, system-driven transitions.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// ActorID is the user who performed the action; nil for system actions.
	ActorID id.UserID `json:"actor_id"`
	Actor   string    `json:"actor"`
	// Subject is the entity acted on, usually a process or user ID.
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	// Process events
	EventProcessCreated       AuditEvent = "process_created"
	EventProcessUpdated       AuditEvent = "process_updated"
	EventProcessExitMarked    AuditEvent = "process_exit_marked"
	EventProcessDeleted       AuditEvent = "process_deleted"
	EventMonitoringConcluded  AuditEvent = "monitoring_concluded"
	EventMonitoringSuperseded AuditEvent = "monitoring_superseded"
	EventMonitoringOverdue    AuditEvent = "monitoring_overdue"
	EventMonitoringReopened   AuditEvent = "monitoring_reopened"
	EventProcessAccessDenied  AuditEvent = "process_access_denied"

	// Identity events
	EventUserCreated      AuditEvent = "user_created"
	EventUserDeleted      AuditEvent = "user_deleted"
	EventUserLevelChanged AuditEvent = "user_level_changed"
	EventLoginSucceeded   AuditEvent = "login_succeeded"
	EventAuthFailed       AuditEvent = "auth_failed"
	EventLoggedOut        AuditEvent = "logged_out"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventProcessCreated:      CategoryCompliance,
	EventProcessUpdated:      CategoryCompliance,
	EventProcessExitMarked:   CategoryCompliance,
	EventProcessDeleted:      CategoryCompliance,
	EventMonitoringConcluded: CategoryCompliance,
	EventUserCreated:         CategoryCompliance,
	EventUserDeleted:         CategoryCompliance,
	EventUserLevelChanged:    CategoryCompliance,

	EventProcessAccessDenied: CategorySecurity,
	EventAuthFailed:          CategorySecurity,
	EventLoginSucceeded:      CategorySecurity,
	EventLoggedOut:           CategorySecurity,

	EventMonitoringSuperseded: CategoryOperations,
	EventMonitoringOverdue:    CategoryOperations,
	EventMonitoringReopened:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Tee fans every event out to all stores and returns the first error.
type Tee []Store

func (t Tee) Append(ctx context.Context, event Event) error {
	var firstErr error
	for _, s := range t {
		if err := s.Append(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
