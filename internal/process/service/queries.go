package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"protocolo/internal/process/deadline"
	"protocolo/internal/process/models"
	"protocolo/internal/process/monitoring"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
)

// OpenItem is one row of the open listing.
type OpenItem struct {
	*models.Process
	Deadline  *models.Date `json:"deadline"`
	Remaining string       `json:"remaining"`
}

// Get returns one process the actor may see.
func (s *Service) Get(ctx context.Context, processID id.ProcessID) (*models.Process, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, translateStoreError(err, "load process")
	}
	if err := s.requireGenre(ctx, actor, p, p.Genre); err != nil {
		return nil, err
	}
	return p, nil
}

// LatestByNumber returns the most recent entry registered under number.
func (s *Service) LatestByNumber(ctx context.Context, number string) (*models.Process, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if number == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "process_number is required")
	}
	p, err := s.store.FindLatestByNumber(ctx, number)
	if err != nil {
		return nil, translateStoreError(err, "load process")
	}
	if err := s.requireGenre(ctx, actor, p, p.Genre); err != nil {
		return nil, err
	}
	return p, nil
}

// ListOpen lists processes without exit, each with its analysis deadline and
// a remaining-days label relative to today.
func (s *Service) ListOpen(ctx context.Context, filter models.ListFilter) ([]OpenItem, error) {
	ctx, span := s.startSpan(ctx, "list_open")
	defer span.End()
	defer s.observe("list_open", time.Now())

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	filter.Closed = false
	filter.Genres = s.policy.AccessibleGenres(actor)

	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err, "list processes")
	}
	today := s.today(ctx)
	out := make([]OpenItem, 0, len(items))
	for _, p := range items {
		due := deadline.Compute(p.EntryDate, p.Priority)
		out = append(out, OpenItem{
			Process:   p,
			Deadline:  due,
			Remaining: deadline.FormatRemaining(due, today),
		})
	}
	span.SetAttributes(attribute.Int("process.count", len(out)))
	return out, nil
}

// ListClosed lists processes with an exit and reconciles their monitoring
// status against today. Every changed process is persisted in its own
// transaction before the listing is returned.
func (s *Service) ListClosed(ctx context.Context, filter models.ListFilter) ([]*models.Process, error) {
	ctx, span := s.startSpan(ctx, "list_closed")
	defer span.End()
	defer s.observe("list_closed", time.Now())

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	filter.Closed = true
	filter.Genres = s.policy.AccessibleGenres(actor)

	// The status filter applies to the reconciled status, so the query
	// itself must not narrow on it.
	wantStatus := filter.Monitoring
	filter.Monitoring = ""

	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err, "list processes")
	}

	now := s.now(ctx)
	today := models.DateOf(now)
	transitions := 0
	result := make([]*models.Process, 0, len(items))
	for _, p := range items {
		next, transition := monitoring.Reconcile(p, today)
		if transition != monitoring.TransitionNone {
			next.UpdatedAt = now
			err := s.tx.RunInTx(ctx, func(store Store) error {
				return store.Update(ctx, next)
			})
			if err != nil {
				return nil, translateStoreError(err, "persist monitoring status")
			}
			transitions++
			s.recordTransition(ctx, next, transition)
		}
		if wantStatus != "" && next.Monitoring != wantStatus {
			continue
		}
		result = append(result, next)
	}
	span.SetAttributes(
		attribute.Int("process.count", len(result)),
		attribute.Int("monitoring.transitions", transitions),
	)
	return result, nil
}

func (s *Service) recordTransition(ctx context.Context, p *models.Process, transition monitoring.Transition) {
	event := audit.EventMonitoringOverdue
	if transition == monitoring.TransitionReopened {
		event = audit.EventMonitoringReopened
	}
	s.logAudit(ctx, event, id.System, p.ID.String(),
		"process_number", p.Number,
		"next_due", p.NextDue.String())
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(transition))
	}
}

// History returns the change log and monitoring records of a process, newest first.
func (s *Service) History(ctx context.Context, processID id.ProcessID) (*models.History, error) {
	p, err := s.Get(ctx, processID)
	if err != nil {
		return nil, err
	}
	changes, err := s.store.ListChanges(ctx, processID)
	if err != nil {
		return nil, translateStoreError(err, "load change log")
	}
	records, err := s.store.ListMonitoringRecords(ctx, processID)
	if err != nil {
		return nil, translateStoreError(err, "load monitoring records")
	}
	return &models.History{
		ProcessID:  p.ID,
		Number:     p.Number,
		Changes:    changes,
		Monitoring: records,
	}, nil
}

// Genres lists the genres in use that the actor may access.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.store.DistinctGenres(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list genres")
	}
	out := make([]models.Genre, 0, len(genres))
	for _, g := range genres {
		if s.policy.CanAccessGenre(actor, g) {
			out = append(out, g)
		}
	}
	return out, nil
}

// Species lists the species in use under genre, or under every genre the
// actor may access when genre is empty.
func (s *Service) Species(ctx context.Context, genre models.Genre) ([]string, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	genres := s.policy.AccessibleGenres(actor)
	if genre != "" {
		if !s.policy.CanAccessGenre(actor, genre) {
			return nil, dErrors.New(dErrors.CodeForbidden, "you do not have access to processes of this genre")
		}
		genres = []models.Genre{genre}
	}
	species, err := s.store.DistinctSpecies(ctx, genres)
	if err != nil {
		return nil, translateStoreError(err, "list species")
	}
	return species, nil
}
