package store

import (
	"context"
	"sort"
	"sync"

	"protocolo/internal/process/models"
	id "protocolo/pkg/domain"
	"protocolo/pkg/platform/sentinel"
)

// InMemoryStore keeps processes and their owned records in maps. Returned
// values are copies, so callers may mutate them freely.
type InMemoryStore struct {
	mu         sync.RWMutex
	processes  map[id.ProcessID]*models.Process
	changes    map[id.ProcessID][]*models.ChangeLogEntry
	monitoring map[id.ProcessID][]*models.MonitoringRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		processes:  make(map[id.ProcessID]*models.Process),
		changes:    make(map[id.ProcessID][]*models.ChangeLogEntry),
		monitoring: make(map[id.ProcessID][]*models.MonitoringRecord),
	}
}

func (s *InMemoryStore) Create(_ context.Context, p *models.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[p.ID]; ok {
		return sentinel.ErrConflict
	}
	s.processes[p.ID] = p.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, p *models.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[p.ID]; !ok {
		return ErrNotFound
	}
	s.processes[p.ID] = p.Clone()
	return nil
}

// Delete removes the process and every record it owns.
func (s *InMemoryStore) Delete(_ context.Context, processID id.ProcessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[processID]; !ok {
		return ErrNotFound
	}
	delete(s.processes, processID)
	delete(s.changes, processID)
	delete(s.monitoring, processID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, processID id.ProcessID) (*models.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.processes[processID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// FindLatestByNumber returns the most recent entry for a process number.
func (s *InMemoryStore) FindLatestByNumber(_ context.Context, number string) (*models.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Process
	for _, p := range s.processes {
		if p.Number != number {
			continue
		}
		if latest == nil || enteredAfter(p, latest) {
			latest = p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest.Clone(), nil
}

func enteredAfter(a, b *models.Process) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.After(b.EntryDate)
	}
	return a.EntryTime.Full() > b.EntryTime.Full()
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Process, 0)
	for _, p := range s.processes {
		if matches(p, filter) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	sortListing(out, filter.Closed)
	return out, nil
}

func (s *InMemoryStore) ListByNumberAndSpecies(_ context.Context, number string, species []string) ([]*models.Process, error) {
	wanted := make(map[string]struct{}, len(species))
	for _, sp := range species {
		wanted[sp] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Process, 0)
	for _, p := range s.processes {
		if p.Number != number {
			continue
		}
		if _, ok := wanted[p.Species]; ok {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) AppendChanges(_ context.Context, entries []*models.ChangeLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, ok := s.processes[e.ProcessID]; !ok {
			return ErrNotFound
		}
	}
	for _, e := range entries {
		entry := *e
		s.changes[e.ProcessID] = append(s.changes[e.ProcessID], &entry)
	}
	return nil
}

func (s *InMemoryStore) AppendMonitoringRecord(_ context.Context, r *models.MonitoringRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[r.ProcessID]; !ok {
		return ErrNotFound
	}
	record := *r
	s.monitoring[r.ProcessID] = append(s.monitoring[r.ProcessID], &record)
	return nil
}

// ListChanges returns the change log of a process, newest first.
func (s *InMemoryStore) ListChanges(_ context.Context, processID id.ProcessID) ([]*models.ChangeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.changes[processID]
	out := make([]*models.ChangeLogEntry, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		entry := *src[i]
		out = append(out, &entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangedAt.After(out[j].ChangedAt) })
	return out, nil
}

// ListMonitoringRecords returns the monitoring records of a process, newest first.
func (s *InMemoryStore) ListMonitoringRecords(_ context.Context, processID id.ProcessID) ([]*models.MonitoringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.monitoring[processID]
	out := make([]*models.MonitoringRecord, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		record := *src[i]
		out = append(out, &record)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

// DistinctGenres lists the genres in use, sorted.
func (s *InMemoryStore) DistinctGenres(_ context.Context) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[models.Genre]struct{})
	for _, p := range s.processes {
		seen[p.Genre] = struct{}{}
	}
	out := make([]models.Genre, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// DistinctSpecies lists the species in use under the given genres, sorted.
// A nil genres slice means every genre.
func (s *InMemoryStore) DistinctSpecies(_ context.Context, genres []models.Genre) ([]string, error) {
	filter := models.ListFilter{Genres: genres}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, p := range s.processes {
		if filter.AllowsGenre(p.Genre) {
			seen[p.Species] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for sp := range seen {
		out = append(out, sp)
	}
	sort.Strings(out)
	return out, nil
}
