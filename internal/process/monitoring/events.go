package monitoring

import (
	"context"
	"time"

	"protocolo/internal/process/models"
)

// ProcessCreatedWithSupersedingSpecies is raised when a process whose species
// closes earlier cycles is created. Handling it touches other aggregates that
// share the process number.
type ProcessCreatedWithSupersedingSpecies struct {
	Process    *models.Process
	Actor      string
	OccurredAt time.Time
}

// SupersessionEventFor returns the event for a freshly created process, or
// false when its species does not supersede anything.
func SupersessionEventFor(p *models.Process, actor string, now time.Time) (ProcessCreatedWithSupersedingSpecies, bool) {
	if !TriggersConclusion(p.Species) {
		return ProcessCreatedWithSupersedingSpecies{}, false
	}
	return ProcessCreatedWithSupersedingSpecies{Process: p, Actor: actor, OccurredAt: now}, true
}

// SupersessionStore is the unscoped store view the handler needs. It must not
// apply the acting user's genre filter.
type SupersessionStore interface {
	ListByNumberAndSpecies(ctx context.Context, number string, species []string) ([]*models.Process, error)
	Update(ctx context.Context, p *models.Process) error
	AppendMonitoringRecord(ctx context.Context, record *models.MonitoringRecord) error
}

// Superseded pairs a closed process with the record explaining why.
type Superseded struct {
	Process *models.Process
	Record  *models.MonitoringRecord
}

// HandleSupersession concludes every open cycle of other processes with the
// same number and a superseding species.
func HandleSupersession(ctx context.Context, store SupersessionStore, evt ProcessCreatedWithSupersedingSpecies) ([]Superseded, error) {
	candidates, err := store.ListByNumberAndSpecies(ctx, evt.Process.Number, SupersedingSpecies())
	if err != nil {
		return nil, err
	}

	var out []Superseded
	for _, previous := range candidates {
		if previous.ID == evt.Process.ID {
			continue
		}
		record := Supersede(previous, evt.Process, evt.Actor, evt.OccurredAt)
		if record == nil {
			continue
		}
		if err := store.Update(ctx, previous); err != nil {
			return nil, err
		}
		if err := store.AppendMonitoringRecord(ctx, record); err != nil {
			return nil, err
		}
		out = append(out, Superseded{Process: previous, Record: record})
	}
	return out, nil
}
