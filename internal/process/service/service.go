package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,StoreTx,AccessPolicy,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"protocolo/internal/process/metrics"
	"protocolo/internal/process/models"
	"protocolo/pkg/attrs"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/sentinel"
	"protocolo/pkg/requestcontext"
)

// Store is the persistence the process service needs. Implementations return
// sentinel errors; the service translates them.
type Store interface {
	Create(ctx context.Context, p *models.Process) error
	Update(ctx context.Context, p *models.Process) error
	Delete(ctx context.Context, processID id.ProcessID) error
	FindByID(ctx context.Context, processID id.ProcessID) (*models.Process, error)
	FindLatestByNumber(ctx context.Context, number string) (*models.Process, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Process, error)
	ListByNumberAndSpecies(ctx context.Context, number string, species []string) ([]*models.Process, error)
	AppendChanges(ctx context.Context, entries []*models.ChangeLogEntry) error
	AppendMonitoringRecord(ctx context.Context, record *models.MonitoringRecord) error
	ListChanges(ctx context.Context, processID id.ProcessID) ([]*models.ChangeLogEntry, error)
	ListMonitoringRecords(ctx context.Context, processID id.ProcessID) ([]*models.MonitoringRecord, error)
	DistinctGenres(ctx context.Context) ([]models.Genre, error)
	DistinctSpecies(ctx context.Context, genres []models.Genre) ([]string, error)
}

// StoreTx runs fn against a store bound to one transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// AccessPolicy answers which genres and operations an actor may use.
type AccessPolicy interface {
	Allows(actor id.Actor, op id.Operation) bool
	CanAccessGenre(actor id.Actor, genre models.Genre) bool
	// AccessibleGenres returns nil when the actor may see every genre.
	AccessibleGenres(actor id.Actor) []models.Genre
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates intake, updates and the monitoring cycle of processes.
type Service struct {
	store          Store
	tx             StoreTx
	policy         AccessPolicy
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	location       *time.Location
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx replaces the default in-memory transaction runner.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithLocation sets the office time zone used for dates and exit stamps.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New constructs a Service.
func New(store Store, policy AccessPolicy, opts ...Option) *Service {
	s := &Service{
		store:    store,
		policy:   policy,
		tracer:   otel.Tracer("protocolo/internal/process"),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = &inMemoryTx{store: store}
	}
	return s
}

// actor returns the authenticated actor or an unauthorized error.
func (s *Service) actor(ctx context.Context) (id.Actor, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok || actor.IsZero() {
		return id.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}

func (s *Service) requireOperation(ctx context.Context, actor id.Actor, op id.Operation) error {
	if s.policy.Allows(actor, op) {
		return nil
	}
	s.logAudit(ctx, audit.EventProcessAccessDenied, actor, "",
		"operation", string(op))
	return dErrors.New(dErrors.CodeForbidden, "your access level does not allow this operation")
}

func (s *Service) requireGenre(ctx context.Context, actor id.Actor, p *models.Process, genre models.Genre) error {
	if s.policy.CanAccessGenre(actor, genre) {
		return nil
	}
	s.logAudit(ctx, audit.EventProcessAccessDenied, actor, p.ID.String(),
		"genre", string(genre))
	return dErrors.New(dErrors.CodeForbidden, "you do not have access to processes of this genre")
}

// now is the request instant in the office time zone.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).In(s.location)
}

func (s *Service) today(ctx context.Context) models.Date {
	return models.DateOf(s.now(ctx))
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "process."+name)
}

// translateStoreError keeps coded errors and maps store sentinels.
func translateStoreError(err error, action string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "process not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "process already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, actor id.Actor, subject string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit", "actor", actor.Username, "process_id", subject)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Category:  event.Category(),
		ActorID:   actor.ID,
		Actor:     actor.Username,
		Subject:   subject,
		Action:    string(event),
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestID,
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event", "event", string(event), "error", err)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, start)
	}
}
