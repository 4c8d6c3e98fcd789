package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"protocolo/internal/process/changelog"
	"protocolo/internal/process/deadline"
	"protocolo/internal/process/models"
	"protocolo/internal/process/monitoring"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
)

// Create registers a new process. Deadline and monitoring fields are derived
// here, and when the species supersedes earlier cycles the other processes
// with the same number are concluded in the same transaction, regardless of
// the actor's genre access.
func (s *Service) Create(ctx context.Context, req *models.CreateProcessRequest) (*models.Process, error) {
	ctx, span := s.startSpan(ctx, "create")
	defer span.End()
	defer s.observe("create", time.Now())

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, id.OpCreateProcess); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	p, err := models.NewProcess(id.NewProcessID(), req, now)
	if err != nil {
		return nil, err
	}
	if err := s.requireGenre(ctx, actor, p, p.Genre); err != nil {
		return nil, err
	}
	p.DeadlineDays = deadline.Days(p.Priority)
	monitoring.Initialize(p)
	if err := p.CheckInvariants(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "derived monitoring fields are inconsistent")
	}

	var superseded []monitoring.Superseded
	err = s.tx.RunInTx(ctx, func(store Store) error {
		if err := store.Create(ctx, p); err != nil {
			return err
		}
		evt, ok := monitoring.SupersessionEventFor(p, actor.Username, now)
		if !ok {
			return nil
		}
		superseded, err = monitoring.HandleSupersession(ctx, store, evt)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err, "create process")
	}
	span.SetAttributes(
		attribute.String("process.id", p.ID.String()),
		attribute.Int("process.superseded", len(superseded)),
	)

	s.logAudit(ctx, audit.EventProcessCreated, actor, p.ID.String(),
		"process_number", p.Number,
		"genre", string(p.Genre),
		"species", p.Species,
		"monitoring_status", string(p.Monitoring))
	for _, sup := range superseded {
		s.logAudit(ctx, audit.EventMonitoringSuperseded, actor, sup.Process.ID.String(),
			"process_number", sup.Process.Number,
			"reason", "superseded by "+p.ID.String())
	}
	if s.metrics != nil {
		s.metrics.IncrementProcessesCreated()
		s.metrics.AddSupersessions(len(superseded))
	}
	return p, nil
}

// Update applies the requested field changes, re-derives deadline and
// monitoring fields, and records one change log entry per changed field.
func (s *Service) Update(ctx context.Context, processID id.ProcessID, req *models.UpdateProcessRequest) (*models.Process, error) {
	ctx, span := s.startSpan(ctx, "update")
	defer span.End()
	defer s.observe("update", time.Now())
	span.SetAttributes(attribute.String("process.id", processID.String()))

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, id.OpUpdateProcess); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	var (
		updated *models.Process
		changes []*models.ChangeLogEntry
	)
	err = s.tx.RunInTx(ctx, func(store Store) error {
		before, err := store.FindByID(ctx, processID)
		if err != nil {
			return err
		}
		if err := s.requireGenre(ctx, actor, before, before.Genre); err != nil {
			return err
		}

		after := before.Clone()
		if err := req.ApplyTo(after); err != nil {
			return err
		}
		if after.Genre != before.Genre {
			if err := s.requireGenre(ctx, actor, before, after.Genre); err != nil {
				return err
			}
		}
		after.DeadlineDays = deadline.Days(after.Priority)
		monitoring.Recompute(before, after)
		if err := after.CheckInvariants(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "update leaves the process inconsistent")
		}

		changes = changelog.Diff(before, after, actor.Username, now)
		updated = after
		if len(changes) == 0 && !derivedChanged(before, after) {
			return nil
		}
		after.UpdatedAt = now
		if err := store.Update(ctx, after); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return store.AppendChanges(ctx, changes)
	})
	if err != nil {
		return nil, translateStoreError(err, "update process")
	}

	if len(changes) > 0 {
		s.logAudit(ctx, audit.EventProcessUpdated, actor, updated.ID.String(),
			"process_number", updated.Number,
			"reason", "changed "+changedFields(changes))
	}
	return updated, nil
}

func derivedChanged(before, after *models.Process) bool {
	return before.DeadlineDays != after.DeadlineDays ||
		before.Cadence != after.Cadence ||
		before.Monitoring != after.Monitoring ||
		!sameDate(before.NextDue, after.NextDue)
}

func sameDate(a, b *models.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func changedFields(changes []*models.ChangeLogEntry) string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Field)
	}
	return strings.Join(names, ", ")
}

// MarkExit stamps the exit date and time with the current instant. It fails
// when the process already has an exit and leaves monitoring untouched.
func (s *Service) MarkExit(ctx context.Context, processID id.ProcessID) (*models.Process, error) {
	ctx, span := s.startSpan(ctx, "mark_exit")
	defer span.End()
	defer s.observe("mark_exit", time.Now())
	span.SetAttributes(attribute.String("process.id", processID.String()))

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, id.OpMarkExit); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	var p *models.Process
	err = s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		p, err = store.FindByID(ctx, processID)
		if err != nil {
			return err
		}
		if err := s.requireGenre(ctx, actor, p, p.Genre); err != nil {
			return err
		}
		if err := p.CanMarkExit(); err != nil {
			return err
		}
		p.ApplyExit(now)
		p.UpdatedAt = now
		if err := store.Update(ctx, p); err != nil {
			return err
		}
		return store.AppendChanges(ctx, changelog.ExitStamp(p, actor.Username, now))
	})
	if err != nil {
		return nil, translateStoreError(err, "mark exit")
	}

	s.logAudit(ctx, audit.EventProcessExitMarked, actor, p.ID.String(),
		"process_number", p.Number,
		"exit", p.ExitDate.String()+" "+p.ExitTime.Full())
	return p, nil
}

// Conclude closes the monitoring cycle by hand. Every call appends a
// monitoring record, even when the cycle is already concluded.
func (s *Service) Conclude(ctx context.Context, processID id.ProcessID) (*models.Process, error) {
	ctx, span := s.startSpan(ctx, "conclude")
	defer span.End()
	defer s.observe("conclude", time.Now())
	span.SetAttributes(attribute.String("process.id", processID.String()))

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, id.OpConcludeMonitoring); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	var p *models.Process
	err = s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		p, err = store.FindByID(ctx, processID)
		if err != nil {
			return err
		}
		if err := s.requireGenre(ctx, actor, p, p.Genre); err != nil {
			return err
		}
		conclusion := monitoring.Conclude(p, actor.Username, now)
		if err := store.Update(ctx, p); err != nil {
			return err
		}
		if len(conclusion.Changes) > 0 {
			if err := store.AppendChanges(ctx, conclusion.Changes); err != nil {
				return err
			}
		}
		return store.AppendMonitoringRecord(ctx, conclusion.Record)
	})
	if err != nil {
		return nil, translateStoreError(err, "conclude monitoring")
	}

	s.logAudit(ctx, audit.EventMonitoringConcluded, actor, p.ID.String(),
		"process_number", p.Number)
	if s.metrics != nil {
		s.metrics.IncrementManualConclusions()
	}
	return p, nil
}

// Delete removes a process with its change log and monitoring records.
func (s *Service) Delete(ctx context.Context, processID id.ProcessID) error {
	ctx, span := s.startSpan(ctx, "delete")
	defer span.End()
	defer s.observe("delete", time.Now())
	span.SetAttributes(attribute.String("process.id", processID.String()))

	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	if err := s.requireOperation(ctx, actor, id.OpDeleteProcess); err != nil {
		return err
	}

	var number string
	err = s.tx.RunInTx(ctx, func(store Store) error {
		p, err := store.FindByID(ctx, processID)
		if err != nil {
			return err
		}
		number = p.Number
		return store.Delete(ctx, processID)
	})
	if err != nil {
		return translateStoreError(err, "delete process")
	}

	s.logAudit(ctx, audit.EventProcessDeleted, actor, processID.String(),
		"process_number", number)
	return nil
}
