// Package store persists processes with their change log and monitoring
// records. InMemoryStore backs tests and local runs; SQLStore backs Postgres
// and SQLite through sqlx.
package store

import (
	"sort"
	"strings"

	"protocolo/internal/process/models"
	"protocolo/pkg/platform/sentinel"
)

// ErrNotFound is returned when a process does not exist.
var ErrNotFound = sentinel.ErrNotFound

// termFields are the columns searched by ListFilter.Term.
var termFields = []string{
	"process_number", "department", "object", "contracted_party", "analyst", "value", "period",
}

func termValues(p *models.Process) []string {
	return []string{p.Number, p.Department, p.Object, p.ContractedParty, p.Analyst, p.Value, p.Period}
}

// matches applies filter to p the same way the SQL store builds its WHERE clause.
func matches(p *models.Process, f models.ListFilter) bool {
	if p.HasExit() != f.Closed {
		return false
	}
	if !f.AllowsGenre(p.Genre) {
		return false
	}
	if f.Term != "" {
		term := strings.ToLower(f.Term)
		found := false
		for _, v := range termValues(p) {
			if strings.Contains(strings.ToLower(v), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Priority != "" && p.Priority != f.Priority {
		return false
	}
	if f.Genre != "" && p.Genre != f.Genre {
		return false
	}
	if f.Species != "" && p.Species != f.Species {
		return false
	}
	if f.Monitoring != "" && p.Monitoring != f.Monitoring {
		return false
	}
	if f.AnalysisStatus != "" && p.AnalysisStatus != f.AnalysisStatus {
		return false
	}
	if f.ExitFrom != nil && (p.ExitDate == nil || p.ExitDate.Before(*f.ExitFrom)) {
		return false
	}
	if f.ExitTo != nil && (p.ExitDate == nil || p.ExitDate.After(*f.ExitTo)) {
		return false
	}
	return true
}

// sortListing orders open processes by entry date then priority, and closed
// processes by exit date, newest first.
func sortListing(items []*models.Process, closed bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if closed {
			return a.ExitDate.After(*b.ExitDate)
		}
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		return a.Priority < b.Priority
	})
}
