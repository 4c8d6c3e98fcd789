// Package changelog turns process edits into per-field audit entries.
package changelog

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"protocolo/internal/process/models"
)

// Field names as they appear in the change log.
const (
	FieldNumber          = "process_number"
	FieldVolume          = "volume"
	FieldDepartment      = "department"
	FieldEntryDate       = "entry_date"
	FieldEntryTime       = "entry_time"
	FieldExitDate        = "exit_date"
	FieldExitTime        = "exit_time"
	FieldDestination     = "destination"
	FieldGenre           = "genre"
	FieldSpecies         = "species"
	FieldObject          = "object"
	FieldContractedParty = "contracted_party"
	FieldRecurring       = "recurring"
	FieldPriority        = "priority"
	FieldAnalyst         = "analyst"
	FieldAnalysisDate    = "analysis_date"
	FieldDispatchNumber  = "dispatch_number"
	FieldObservation     = "observation"
	FieldNoticeSent      = "notice_sent"
	FieldValue           = "value"
	FieldPeriod          = "period"
	FieldAnalysisStatus  = "analysis_status"
)

type field struct {
	name    string
	display func(p *models.Process) string
}

// tracked lists editable fields in log order. Derived deadline and monitoring
// fields are not tracked.
var tracked = []field{
	{FieldNumber, func(p *models.Process) string { return p.Number }},
	{FieldVolume, func(p *models.Process) string { return p.Volume }},
	{FieldDepartment, func(p *models.Process) string { return p.Department }},
	{FieldEntryDate, func(p *models.Process) string { return p.EntryDate.String() }},
	{FieldEntryTime, func(p *models.Process) string { return p.EntryTime.String() }},
	{FieldExitDate, func(p *models.Process) string { return optionalDate(p.ExitDate) }},
	{FieldExitTime, func(p *models.Process) string { return optionalTime(p.ExitTime) }},
	{FieldDestination, func(p *models.Process) string { return p.Destination }},
	{FieldGenre, func(p *models.Process) string { return string(p.Genre) }},
	{FieldSpecies, func(p *models.Process) string { return p.Species }},
	{FieldObject, func(p *models.Process) string { return p.Object }},
	{FieldContractedParty, func(p *models.Process) string { return p.ContractedParty }},
	{FieldRecurring, func(p *models.Process) string { return string(p.Recurring) }},
	{FieldPriority, func(p *models.Process) string { return string(p.Priority) }},
	{FieldAnalyst, func(p *models.Process) string { return p.Analyst }},
	{FieldAnalysisDate, func(p *models.Process) string { return optionalDate(p.AnalysisDate) }},
	{FieldDispatchNumber, func(p *models.Process) string { return p.DispatchNumber }},
	{FieldObservation, func(p *models.Process) string { return p.Observation }},
	{FieldNoticeSent, func(p *models.Process) string { return strconv.Itoa(p.NoticeSent) }},
	{FieldValue, func(p *models.Process) string { return p.Value }},
	{FieldPeriod, func(p *models.Process) string { return p.Period }},
	{FieldAnalysisStatus, func(p *models.Process) string { return p.AnalysisStatus.Label() }},
}

// Snapshot renders every tracked field of p as its display string.
func Snapshot(p *models.Process) map[string]string {
	out := make(map[string]string, len(tracked))
	for _, f := range tracked {
		out[f.name] = f.display(p)
	}
	return out
}

// Diff returns one entry per tracked field whose display value differs
// between before and after.
func Diff(before, after *models.Process, actor string, at time.Time) []*models.ChangeLogEntry {
	var entries []*models.ChangeLogEntry
	for _, f := range tracked {
		oldValue, newValue := f.display(before), f.display(after)
		if oldValue == newValue {
			continue
		}
		entries = append(entries, newEntry(after, f.name, oldValue, newValue, actor, at))
	}
	return entries
}

// ExitStamp records an exit date and time set by the system on p. The time
// is logged with seconds.
func ExitStamp(p *models.Process, actor string, at time.Time) []*models.ChangeLogEntry {
	if p.ExitDate == nil || p.ExitTime == nil {
		return nil
	}
	return []*models.ChangeLogEntry{
		newEntry(p, FieldExitDate, "", p.ExitDate.String(), actor, at),
		newEntry(p, FieldExitTime, "", p.ExitTime.Full(), actor, at),
	}
}

func newEntry(p *models.Process, name, oldValue, newValue, actor string, at time.Time) *models.ChangeLogEntry {
	return &models.ChangeLogEntry{
		ID:        uuid.New(),
		ProcessID: p.ID,
		Field:     name,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedAt: at,
		ChangedBy: actor,
	}
}

func optionalDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optionalTime(t *models.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}
