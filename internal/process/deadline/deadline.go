// Package deadline computes the analysis deadline of a process from its entry
// date and priority.
package deadline

import (
	"fmt"

	"protocolo/internal/process/models"
)

const (
	UrgentDays = 2
	NormalDays = 7
)

// Days returns the analysis window for a priority. Unknown priorities get the
// normal window.
func Days(priority models.Priority) int {
	if priority == models.PriorityUrgent {
		return UrgentDays
	}
	return NormalDays
}

// Compute returns the analysis deadline, or nil when the entry date is unset.
func Compute(entry models.Date, priority models.Priority) *models.Date {
	if entry.IsZero() {
		return nil
	}
	d := entry.AddDays(Days(priority))
	return &d
}

// FormatRemaining renders how far today is from the deadline, e.g.
// "3 dia(s) restante(s)" or "2 dia(s) atrasado".
func FormatRemaining(deadline *models.Date, today models.Date) string {
	if deadline == nil {
		return "-"
	}
	days := deadline.DaysSince(today)
	if days < 0 {
		return fmt.Sprintf("%d dia(s) atrasado", days)
	}
	return fmt.Sprintf("%d dia(s) restante(s)", days)
}
