package models

import (
	"time"

	"github.com/google/uuid"

	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
)

// Process is the aggregate root for a document tracked by the protocol office.
//
// Invariants:
//   - ExitDate and ExitTime are both set or both nil
//   - Cadence is NAO_APLICAVEL iff NextDue is nil
//   - MonitoringStatus NAO_APLICAVEL implies Cadence NAO_APLICAVEL
//   - DeadlineDays is derived from Priority and never set directly
//   - Monitoring fields are derived by the monitoring engine and never set directly
//
// A CONCLUDED process also carries Cadence NAO_APLICAVEL and a nil NextDue
// until an update re-derives its cycle.
type Process struct {
	ID              id.ProcessID     `json:"id" db:"id"`
	Number          string           `json:"process_number" db:"process_number"`
	Volume          string           `json:"volume" db:"volume"`
	Department      string           `json:"department" db:"department"`
	EntryDate       Date             `json:"entry_date" db:"entry_date"`
	EntryTime       TimeOfDay        `json:"entry_time" db:"entry_time"`
	ExitDate        *Date            `json:"exit_date" db:"exit_date"`
	ExitTime        *TimeOfDay       `json:"exit_time" db:"exit_time"`
	Destination     string           `json:"destination" db:"destination"`
	Genre           Genre            `json:"genre" db:"genre"`
	Species         string           `json:"species" db:"species"`
	Object          string           `json:"object" db:"object"`
	ContractedParty string           `json:"contracted_party" db:"contracted_party"`
	Recurring       Recurring        `json:"recurring" db:"recurring"`
	Priority        Priority         `json:"priority" db:"priority"`
	DeadlineDays    int              `json:"deadline_days" db:"deadline_days"`
	Analyst         string           `json:"analyst" db:"analyst"`
	AnalysisDate    *Date            `json:"analysis_date" db:"analysis_date"`
	DispatchNumber  string           `json:"dispatch_number" db:"dispatch_number"`
	Observation     string           `json:"observation" db:"observation"`
	NoticeSent      int              `json:"notice_sent" db:"notice_sent"`
	Value           string           `json:"value" db:"value"`
	Period          string           `json:"period" db:"period"`
	AnalysisStatus  AnalysisStatus   `json:"analysis_status" db:"analysis_status"`
	Cadence         Cadence          `json:"monitoring_cadence" db:"monitoring_cadence"`
	NextDue         *Date            `json:"monitoring_next_due" db:"monitoring_next_due"`
	Monitoring      MonitoringStatus `json:"monitoring_status" db:"monitoring_status"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// HasExit reports whether the process has left the office.
func (p *Process) HasExit() bool {
	return p.ExitDate != nil
}

// MonitoringBase is the date monitoring offsets are counted from: the exit
// date when present, otherwise the entry date.
func (p *Process) MonitoringBase() Date {
	if p.ExitDate != nil {
		return *p.ExitDate
	}
	return p.EntryDate
}

// Clone returns a deep copy so callers can diff before and after states.
func (p *Process) Clone() *Process {
	c := *p
	c.ExitDate = cloneDate(p.ExitDate)
	c.AnalysisDate = cloneDate(p.AnalysisDate)
	c.NextDue = cloneDate(p.NextDue)
	if p.ExitTime != nil {
		t := *p.ExitTime
		c.ExitTime = &t
	}
	return &c
}

// CanMarkExit checks the process has not left yet.
func (p *Process) CanMarkExit() error {
	if p.HasExit() {
		return dErrors.New(dErrors.CodeValidation, "exit date is already set for this process")
	}
	return nil
}

// ApplyExit stamps the exit date and time from now.
func (p *Process) ApplyExit(now time.Time) {
	d := DateOf(now)
	t := TimeOfDayOf(now)
	p.ExitDate = &d
	p.ExitTime = &t
	p.UpdatedAt = now
}

// ApplyMonitoring replaces all derived monitoring fields at once.
func (p *Process) ApplyMonitoring(cadence Cadence, status MonitoringStatus, nextDue *Date) {
	p.Cadence = cadence
	p.Monitoring = status
	p.NextDue = nextDue
}

// CheckInvariants validates the aggregate before it is persisted.
func (p *Process) CheckInvariants() error {
	if (p.ExitDate == nil) != (p.ExitTime == nil) {
		return dErrors.New(dErrors.CodeValidation, "exit date and exit time must be set together")
	}
	if p.Cadence.IsApplicable() != (p.NextDue != nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "monitoring cadence and next due date disagree")
	}
	if p.Monitoring == MonitoringNotApplicable && p.Cadence.IsApplicable() {
		return dErrors.New(dErrors.CodeInvariantViolation, "monitoring status is not applicable but a cadence is set")
	}
	return nil
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// MonitoringRecord notes the conclusion of a monitoring cycle. Records are
// append-only and deleted only with their process.
type MonitoringRecord struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	ProcessID    id.ProcessID `json:"process_id" db:"process_id"`
	RegisteredAt time.Time    `json:"registered_at" db:"registered_at"`
	Note         string       `json:"note" db:"note"`
	RecordedBy   string       `json:"recorded_by" db:"recorded_by"`
}

// ChangeLogEntry is one field-level change made to a process. Values are
// display strings; an empty string stands for "no value".
type ChangeLogEntry struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	ProcessID id.ProcessID `json:"process_id" db:"process_id"`
	Field     string       `json:"field" db:"field"`
	OldValue  string       `json:"old_value" db:"old_value"`
	NewValue  string       `json:"new_value" db:"new_value"`
	ChangedAt time.Time    `json:"changed_at" db:"changed_at"`
	ChangedBy string       `json:"changed_by" db:"changed_by"`
}

// History is the audit trail of one process, newest first.
type History struct {
	ProcessID  id.ProcessID        `json:"process_id"`
	Number     string              `json:"process_number"`
	Changes    []*ChangeLogEntry   `json:"changes"`
	Monitoring []*MonitoringRecord `json:"monitoring_records"`
}

// ListFilter selects processes for the open and closed listings. Zero values
// mean "any".
type ListFilter struct {
	Closed         bool
	Term           string
	Priority       Priority
	Genre          Genre
	Species        string
	Monitoring     MonitoringStatus
	AnalysisStatus AnalysisStatus
	ExitFrom       *Date
	ExitTo         *Date

	// Genres limits results to the genres the caller may access. Nil means
	// every genre; an empty non-nil slice matches nothing.
	Genres []Genre
}

// AllowsGenre reports whether g passes the access restriction.
func (f ListFilter) AllowsGenre(g Genre) bool {
	if f.Genres == nil {
		return true
	}
	for _, allowed := range f.Genres {
		if allowed == g {
			return true
		}
	}
	return false
}
