// Package monitoring drives the periodic compliance cycle of a process:
// which cadence applies, when the next check is due, and how the cycle moves
// between PENDENTE, ATRASADO and CONCLUIDO.
package monitoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"protocolo/internal/process/changelog"
	"protocolo/internal/process/models"
)

// Transition names a status change made by Reconcile.
type Transition string

const (
	TransitionNone     Transition = ""
	TransitionOverdue  Transition = "overdue"
	TransitionReopened Transition = "reopened"
)

// Initialize sets the monitoring fields of a newly created process from the
// rule table.
func Initialize(p *models.Process) {
	rule := Lookup(p.Genre, p.Species)
	p.ApplyMonitoring(rule.Cadence, rule.Initial, NextDue(p.MonitoringBase(), rule.Cadence))
}

// Recompute re-derives the monitoring fields of after once an update has been
// applied over before. It only acts when genre, species, entry date or exit
// date changed, and then only when one of these holds:
//   - the rule's cadence differs from the stored one
//   - the stored status is NAO_APLICAVEL and the rule starts PENDENTE
//   - the exit date changed to a value and the rule schedules a cycle
//   - the entry date changed, there is no exit, and the rule schedules a cycle
//
// It reports whether the fields were rewritten.
func Recompute(before, after *models.Process) bool {
	entryChanged := !before.EntryDate.Equal(after.EntryDate)
	exitChanged := !sameDate(before.ExitDate, after.ExitDate)
	classChanged := before.Genre != after.Genre || before.Species != after.Species
	if !entryChanged && !exitChanged && !classChanged {
		return false
	}

	rule := Lookup(after.Genre, after.Species)
	recompute := after.Cadence != rule.Cadence ||
		(after.Monitoring == models.MonitoringNotApplicable && rule.Initial == models.MonitoringPending) ||
		(exitChanged && after.ExitDate != nil && rule.Applies()) ||
		(entryChanged && after.ExitDate == nil && rule.Applies())
	if !recompute {
		return false
	}

	after.ApplyMonitoring(rule.Cadence, rule.Initial, NextDue(after.MonitoringBase(), rule.Cadence))
	return true
}

// Reconcile applies the time-based transitions for today and returns the
// resulting process. p itself is never modified; when nothing changes p is
// returned as is with TransitionNone.
//
// A PENDENTE cycle whose due date is before today becomes ATRASADO. A
// CONCLUIDO process that still carries a due date on or before today is
// reopened as PENDENTE.
func Reconcile(p *models.Process, today models.Date) (*models.Process, Transition) {
	if p.NextDue == nil {
		return p, TransitionNone
	}
	switch {
	case p.Monitoring == models.MonitoringPending && p.NextDue.Before(today):
		next := p.Clone()
		next.Monitoring = models.MonitoringOverdue
		return next, TransitionOverdue
	case p.Monitoring == models.MonitoringConcluded && !p.NextDue.After(today):
		next := p.Clone()
		next.Monitoring = models.MonitoringPending
		return next, TransitionReopened
	default:
		return p, TransitionNone
	}
}

// Conclusion is what a manual conclusion wrote.
type Conclusion struct {
	Changes []*models.ChangeLogEntry
	Record  *models.MonitoringRecord
}

// Conclude closes the monitoring cycle of p on behalf of actor, whatever its
// current status. A process without an exit gets one stamped from now. Every
// call produces a new monitoring record.
func Conclude(p *models.Process, actor string, now time.Time) Conclusion {
	var out Conclusion
	if !p.HasExit() {
		p.ApplyExit(now)
		out.Changes = changelog.ExitStamp(p, actor, now)
	}
	closeCycle(p, now)
	out.Record = newRecord(p, fmt.Sprintf("Monitoramento concluído manualmente por %s.", actor), actor, now)
	return out
}

// Supersede closes the open cycle of previous because cause arrived with the
// same process number. It returns nil and leaves previous alone when its
// cycle is not PENDENTE or ATRASADO.
func Supersede(previous, cause *models.Process, actor string, now time.Time) *models.MonitoringRecord {
	if !previous.Monitoring.IsOpen() {
		return nil
	}
	closeCycle(previous, now)
	note := fmt.Sprintf(
		"Monitoramento concluído automaticamente pela entrada de um novo processo com o mesmo número (%s) e espécie relacionada: %s.",
		cause.Number, cause.Species,
	)
	return newRecord(previous, note, actor, now)
}

func closeCycle(p *models.Process, now time.Time) {
	p.ApplyMonitoring(models.CadenceNotApplicable, models.MonitoringConcluded, nil)
	p.UpdatedAt = now
}

func newRecord(p *models.Process, note, actor string, now time.Time) *models.MonitoringRecord {
	return &models.MonitoringRecord{
		ID:           uuid.New(),
		ProcessID:    p.ID,
		RegisteredAt: now,
		Note:         note,
		RecordedBy:   actor,
	}
}

func sameDate(a, b *models.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
