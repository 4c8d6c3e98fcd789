package models

import (
	"strings"
	"time"

	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
)

const (
	maxShortField = 255
	maxTextField  = 10000
)

// CreateProcessRequest is the intake form for a new process.
type CreateProcessRequest struct {
	Number          string `json:"process_number"`
	Volume          string `json:"volume"`
	Department      string `json:"department"`
	EntryDate       string `json:"entry_date"`
	EntryTime       string `json:"entry_time"`
	ExitDate        string `json:"exit_date"`
	ExitTime        string `json:"exit_time"`
	Destination     string `json:"destination"`
	Genre           string `json:"genre"`
	Species         string `json:"species"`
	Object          string `json:"object"`
	ContractedParty string `json:"contracted_party"`
	Recurring       string `json:"recurring"`
	Priority        string `json:"priority"`
	Analyst         string `json:"analyst"`
	AnalysisDate    string `json:"analysis_date"`
	DispatchNumber  string `json:"dispatch_number"`
	Observation     string `json:"observation"`
	Value           string `json:"value"`
	Period          string `json:"period"`
	AnalysisStatus  string `json:"analysis_status"`
}

func (r *CreateProcessRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range []*string{
		&r.Number, &r.Volume, &r.Department, &r.EntryDate, &r.EntryTime, &r.ExitDate, &r.ExitTime,
		&r.Destination, &r.Genre, &r.Species, &r.Object, &r.ContractedParty, &r.Recurring,
		&r.Analyst, &r.AnalysisDate, &r.DispatchNumber, &r.Observation, &r.Value, &r.Period,
		&r.AnalysisStatus,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.Priority = strings.ToUpper(strings.TrimSpace(r.Priority))
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateProcessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for name, v := range map[string]string{
		"process_number": r.Number, "volume": r.Volume, "department": r.Department,
		"destination": r.Destination, "genre": r.Genre, "species": r.Species,
		"contracted_party": r.ContractedParty, "analyst": r.Analyst,
		"dispatch_number": r.DispatchNumber, "value": r.Value, "period": r.Period,
	} {
		if len(v) > maxShortField {
			return dErrors.New(dErrors.CodeValidation, name+" must be 255 characters or less")
		}
	}
	if len(r.Object) > maxTextField || len(r.Observation) > maxTextField {
		return dErrors.New(dErrors.CodeValidation, "text fields must be 10000 characters or less")
	}

	required := []struct{ name, value string }{
		{"process_number", r.Number},
		{"department", r.Department},
		{"entry_date", r.EntryDate},
		{"entry_time", r.EntryTime},
		{"genre", r.Genre},
		{"species", r.Species},
		{"object", r.Object},
		{"priority", r.Priority},
	}
	for _, f := range required {
		if f.value == "" {
			return dErrors.New(dErrors.CodeValidation, f.name+" is required")
		}
	}

	_, err := r.parse()
	return err
}

type parsedCreate struct {
	entryDate    Date
	entryTime    TimeOfDay
	exitDate     *Date
	exitTime     *TimeOfDay
	analysisDate *Date
}

func (r *CreateProcessRequest) parse() (parsedCreate, error) {
	var out parsedCreate
	var err error
	if out.entryDate, err = ParseDate(r.EntryDate); err != nil {
		return out, err
	}
	if out.entryTime, err = ParseTimeOfDay(r.EntryTime); err != nil {
		return out, err
	}
	if out.exitDate, err = parseOptionalDate(r.ExitDate); err != nil {
		return out, err
	}
	if out.exitTime, err = parseOptionalTime(r.ExitTime); err != nil {
		return out, err
	}
	if (out.exitDate == nil) != (out.exitTime == nil) {
		return out, dErrors.New(dErrors.CodeValidation, "exit date and exit time must be set together")
	}
	if out.analysisDate, err = parseOptionalDate(r.AnalysisDate); err != nil {
		return out, err
	}
	if status := ParseAnalysisStatus(r.AnalysisStatus); !status.IsValid() {
		return out, dErrors.New(dErrors.CodeValidation, "unknown analysis_status "+r.AnalysisStatus)
	}
	return out, nil
}

// NewProcess builds a process from a validated request. Derived deadline and
// monitoring fields are left for the caller to compute.
func NewProcess(processID id.ProcessID, r *CreateProcessRequest, now time.Time) (*Process, error) {
	parsed, err := r.parse()
	if err != nil {
		return nil, err
	}
	return &Process{
		ID:              processID,
		Number:          r.Number,
		Volume:          r.Volume,
		Department:      r.Department,
		EntryDate:       parsed.entryDate,
		EntryTime:       parsed.entryTime,
		ExitDate:        parsed.exitDate,
		ExitTime:        parsed.exitTime,
		Destination:     r.Destination,
		Genre:           Genre(r.Genre),
		Species:         r.Species,
		Object:          r.Object,
		ContractedParty: r.ContractedParty,
		Recurring:       ParseRecurring(r.Recurring),
		Priority:        Priority(r.Priority),
		Analyst:         r.Analyst,
		AnalysisDate:    parsed.analysisDate,
		DispatchNumber:  r.DispatchNumber,
		Observation:     r.Observation,
		Value:           r.Value,
		Period:          r.Period,
		AnalysisStatus:  ParseAnalysisStatus(r.AnalysisStatus),
		Cadence:         CadenceNotApplicable,
		Monitoring:      MonitoringNotApplicable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// UpdateProcessRequest carries the fields a caller wants to change. A nil
// field is left untouched; an empty string clears an optional field.
// Derived fields (deadline, monitoring) are not accepted.
type UpdateProcessRequest struct {
	Number          *string `json:"process_number"`
	Volume          *string `json:"volume"`
	Department      *string `json:"department"`
	EntryDate       *string `json:"entry_date"`
	EntryTime       *string `json:"entry_time"`
	ExitDate        *string `json:"exit_date"`
	ExitTime        *string `json:"exit_time"`
	Destination     *string `json:"destination"`
	Genre           *string `json:"genre"`
	Species         *string `json:"species"`
	Object          *string `json:"object"`
	ContractedParty *string `json:"contracted_party"`
	Recurring       *string `json:"recurring"`
	Priority        *string `json:"priority"`
	Analyst         *string `json:"analyst"`
	AnalysisDate    *string `json:"analysis_date"`
	DispatchNumber  *string `json:"dispatch_number"`
	Observation     *string `json:"observation"`
	NoticeSent      *int    `json:"notice_sent"`
	Value           *string `json:"value"`
	Period          *string `json:"period"`
	AnalysisStatus  *string `json:"analysis_status"`
}

func (r *UpdateProcessRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range r.stringFields() {
		if *f.ptr != nil {
			v := strings.TrimSpace(**f.ptr)
			*f.ptr = &v
		}
	}
	if r.Priority != nil {
		v := strings.ToUpper(*r.Priority)
		r.Priority = &v
	}
}

type stringField struct {
	name     string
	ptr      **string
	required bool
	maxLen   int
}

func (r *UpdateProcessRequest) stringFields() []stringField {
	return []stringField{
		{"process_number", &r.Number, true, maxShortField},
		{"volume", &r.Volume, false, maxShortField},
		{"department", &r.Department, true, maxShortField},
		{"entry_date", &r.EntryDate, true, maxShortField},
		{"entry_time", &r.EntryTime, true, maxShortField},
		{"exit_date", &r.ExitDate, false, maxShortField},
		{"exit_time", &r.ExitTime, false, maxShortField},
		{"destination", &r.Destination, false, maxShortField},
		{"genre", &r.Genre, true, maxShortField},
		{"species", &r.Species, true, maxShortField},
		{"object", &r.Object, true, maxTextField},
		{"contracted_party", &r.ContractedParty, false, maxShortField},
		{"recurring", &r.Recurring, false, maxShortField},
		{"priority", &r.Priority, true, maxShortField},
		{"analyst", &r.Analyst, false, maxShortField},
		{"analysis_date", &r.AnalysisDate, false, maxShortField},
		{"dispatch_number", &r.DispatchNumber, false, maxShortField},
		{"observation", &r.Observation, false, maxTextField},
		{"value", &r.Value, false, maxShortField},
		{"period", &r.Period, false, maxShortField},
		{"analysis_status", &r.AnalysisStatus, false, maxShortField},
	}
}

// IsEmpty reports whether the request names no field at all.
func (r *UpdateProcessRequest) IsEmpty() bool {
	for _, f := range r.stringFields() {
		if *f.ptr != nil {
			return false
		}
	}
	return r.NoticeSent == nil
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *UpdateProcessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for _, f := range r.stringFields() {
		if *f.ptr != nil && len(**f.ptr) > f.maxLen {
			return dErrors.New(dErrors.CodeValidation, f.name+" is too long")
		}
	}
	for _, f := range r.stringFields() {
		if f.required && *f.ptr != nil && **f.ptr == "" {
			return dErrors.New(dErrors.CodeValidation, f.name+" cannot be cleared")
		}
	}
	if r.NoticeSent != nil && *r.NoticeSent < 0 {
		return dErrors.New(dErrors.CodeValidation, "notice_sent cannot be negative")
	}
	if r.IsEmpty() {
		return dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	return nil
}

// ApplyTo writes the requested changes onto p. Dates and times are parsed
// here so a malformed value leaves p untouched.
func (r *UpdateProcessRequest) ApplyTo(p *Process) error {
	next := p.Clone()

	var err error
	if r.EntryDate != nil {
		if next.EntryDate, err = ParseDate(*r.EntryDate); err != nil {
			return err
		}
	}
	if r.EntryTime != nil {
		if next.EntryTime, err = ParseTimeOfDay(*r.EntryTime); err != nil {
			return err
		}
	}
	if r.ExitDate != nil {
		if next.ExitDate, err = parseOptionalDate(*r.ExitDate); err != nil {
			return err
		}
	}
	if r.ExitTime != nil {
		if next.ExitTime, err = parseOptionalTime(*r.ExitTime); err != nil {
			return err
		}
	}
	if r.AnalysisDate != nil {
		if next.AnalysisDate, err = parseOptionalDate(*r.AnalysisDate); err != nil {
			return err
		}
	}
	if r.AnalysisStatus != nil {
		status := ParseAnalysisStatus(*r.AnalysisStatus)
		if !status.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown analysis_status "+*r.AnalysisStatus)
		}
		next.AnalysisStatus = status
	}
	if (next.ExitDate == nil) != (next.ExitTime == nil) {
		return dErrors.New(dErrors.CodeValidation, "exit date and exit time must be set together")
	}

	setString(&next.Number, r.Number)
	setString(&next.Volume, r.Volume)
	setString(&next.Department, r.Department)
	setString(&next.Destination, r.Destination)
	setString(&next.Species, r.Species)
	setString(&next.Object, r.Object)
	setString(&next.ContractedParty, r.ContractedParty)
	setString(&next.Analyst, r.Analyst)
	setString(&next.DispatchNumber, r.DispatchNumber)
	setString(&next.Observation, r.Observation)
	setString(&next.Value, r.Value)
	setString(&next.Period, r.Period)
	if r.Genre != nil {
		next.Genre = Genre(*r.Genre)
	}
	if r.Priority != nil {
		next.Priority = Priority(*r.Priority)
	}
	if r.Recurring != nil {
		next.Recurring = ParseRecurring(*r.Recurring)
	}
	if r.NoticeSent != nil {
		next.NoticeSent = *r.NoticeSent
	}

	*p = *next
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func parseOptionalDate(s string) (*Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalTime(s string) (*TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
