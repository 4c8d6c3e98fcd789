package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"protocolo/internal/process/models"
	id "protocolo/pkg/domain"
	"protocolo/pkg/platform/sentinel"
)

type processStore interface {
	Create(ctx context.Context, p *models.Process) error
	Update(ctx context.Context, p *models.Process) error
	Delete(ctx context.Context, processID id.ProcessID) error
	FindByID(ctx context.Context, processID id.ProcessID) (*models.Process, error)
	FindLatestByNumber(ctx context.Context, number string) (*models.Process, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Process, error)
	ListByNumberAndSpecies(ctx context.Context, number string, species []string) ([]*models.Process, error)
	AppendChanges(ctx context.Context, entries []*models.ChangeLogEntry) error
	AppendMonitoringRecord(ctx context.Context, r *models.MonitoringRecord) error
	ListChanges(ctx context.Context, processID id.ProcessID) ([]*models.ChangeLogEntry, error)
	ListMonitoringRecords(ctx context.Context, processID id.ProcessID) ([]*models.MonitoringRecord, error)
	DistinctGenres(ctx context.Context) ([]models.Genre, error)
	DistinctSpecies(ctx context.Context, genres []models.Genre) ([]string, error)
}

// storeContractSuite holds the behaviour every process store must share.
// Backends embed it and supply newStore.
type storeContractSuite struct {
	suite.Suite
	ctx      context.Context
	store    processStore
	newStore func() processStore
	clock    time.Time
}

func (s *storeContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
	s.clock = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
}

func (s *storeContractSuite) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *storeContractSuite) seed(number string, genre models.Genre, species, entry string) *models.Process {
	entryDate, err := models.ParseDate(entry)
	s.Require().NoError(err)
	now := s.tick()
	p := &models.Process{
		ID:             id.NewProcessID(),
		Number:         number,
		Department:     "SEMEL",
		EntryDate:      entryDate,
		EntryTime:      models.NewTimeOfDay(9, 30, 0),
		Genre:          genre,
		Species:        species,
		Object:         "Prestação de contas " + number,
		Recurring:      models.RecurringNo,
		Priority:       models.PriorityNormal,
		DeadlineDays:   7,
		AnalysisStatus: models.AnalysisNotApplicable,
		Cadence:        models.CadenceNotApplicable,
		Monitoring:     models.MonitoringNotApplicable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.store.Create(s.ctx, p))
	return p
}

func (s *storeContractSuite) close(p *models.Process, exit string) {
	d, err := models.ParseDate(exit)
	s.Require().NoError(err)
	t := models.NewTimeOfDay(16, 0, 0)
	p.ExitDate, p.ExitTime = &d, &t
	s.Require().NoError(s.store.Update(s.ctx, p))
}

func (s *storeContractSuite) TestCreateAndFind() {
	p := s.seed("100/2024", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")
	next := models.NewDate(2024, time.July, 8)
	p.ApplyMonitoring(models.CadenceSemiAnnual, models.MonitoringPending, &next)
	s.Require().NoError(s.store.Update(s.ctx, p))

	got, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Number, got.Number)
	s.True(p.EntryDate.Equal(got.EntryDate))
	s.Equal("09:30", got.EntryTime.String())
	s.Nil(got.ExitDate)
	s.Nil(got.ExitTime)
	s.Equal(models.CadenceSemiAnnual, got.Cadence)
	s.Require().NotNil(got.NextDue)
	s.Equal("2024-07-08", got.NextDue.String())
}

func (s *storeContractSuite) TestCreateDuplicateIDConflicts() {
	p := s.seed("100/2024", models.GenreOther, "Ofício", "2024-01-10")
	err := s.store.Create(s.ctx, p)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *storeContractSuite) TestMissingProcess() {
	_, err := s.store.FindByID(s.ctx, id.NewProcessID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	ghost := &models.Process{ID: id.NewProcessID(), EntryDate: models.NewDate(2024, 1, 1)}
	s.ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, ghost.ID), sentinel.ErrNotFound)
}

func (s *storeContractSuite) TestFindLatestByNumber() {
	s.seed("200/2024", models.GenreOther, "Ofício", "2024-01-05")
	latest := s.seed("200/2024", models.GenreOther, "Ofício", "2024-02-05")
	s.seed("201/2024", models.GenreOther, "Ofício", "2024-03-05")

	got, err := s.store.FindLatestByNumber(s.ctx, "200/2024")
	s.Require().NoError(err)
	s.Equal(latest.ID, got.ID)

	_, err = s.store.FindLatestByNumber(s.ctx, "999/2024")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *storeContractSuite) TestListOpenOrdersByEntryThenPriority() {
	late := s.seed("1", models.GenreOther, "Ofício", "2024-01-20")
	normal := s.seed("2", models.GenreOther, "Ofício", "2024-01-10")
	urgent := s.seed("3", models.GenreOther, "Ofício", "2024-01-10")
	urgent.Priority = models.PriorityUrgent
	s.Require().NoError(s.store.Update(s.ctx, urgent))
	closed := s.seed("4", models.GenreOther, "Ofício", "2024-01-01")
	s.close(closed, "2024-01-02")

	got, err := s.store.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{normal.ID, urgent.ID, late.ID}, ids(got))
}

func (s *storeContractSuite) TestListClosedFiltersAndOrder() {
	a := s.seed("10", models.GenreLiquidations, models.SpeciesAdvanceReport, "2024-01-01")
	b := s.seed("11", models.GenreLiquidations, models.SpeciesAdvanceReport, "2024-01-01")
	c := s.seed("12", models.GenreProcurementAndContracts, models.SpeciesSponsorshipConcession, "2024-01-01")
	s.seed("13", models.GenreLiquidations, models.SpeciesAdvanceReport, "2024-01-01")
	s.close(a, "2024-02-01")
	s.close(b, "2024-03-01")
	s.close(c, "2024-04-01")

	all, err := s.store.List(s.ctx, models.ListFilter{Closed: true})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{c.ID, b.ID, a.ID}, ids(all))

	from := models.NewDate(2024, time.February, 15)
	to := models.NewDate(2024, time.March, 1)
	ranged, err := s.store.List(s.ctx, models.ListFilter{Closed: true, ExitFrom: &from, ExitTo: &to})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{b.ID}, ids(ranged))

	scoped, err := s.store.List(s.ctx, models.ListFilter{Closed: true, Genres: []models.Genre{models.GenreProcurementAndContracts}})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{c.ID}, ids(scoped))

	none, err := s.store.List(s.ctx, models.ListFilter{Closed: true, Genres: []models.Genre{}})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *storeContractSuite) TestListTermIsCaseInsensitive() {
	p := s.seed("300/2024", models.GenreOther, "Ofício", "2024-01-01")
	p.ContractedParty = "Associação Esportiva Vila Nova"
	s.Require().NoError(s.store.Update(s.ctx, p))
	s.seed("301/2024", models.GenreOther, "Ofício", "2024-01-01")

	got, err := s.store.List(s.ctx, models.ListFilter{Term: "VILA"})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{p.ID}, ids(got))
}

func (s *storeContractSuite) TestListByNumberAndSpecies() {
	a := s.seed("400/2024", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-01")
	s.seed("400/2024", models.GenreOther, "Ofício", "2024-01-02")
	s.seed("401/2024", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-03")

	got, err := s.store.ListByNumberAndSpecies(s.ctx, "400/2024",
		[]string{models.SpeciesAthleteGrantReport, models.SpeciesAdvanceReport})
	s.Require().NoError(err)
	s.Equal([]id.ProcessID{a.ID}, ids(got))

	empty, err := s.store.ListByNumberAndSpecies(s.ctx, "400/2024", nil)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *storeContractSuite) TestHistoryIsNewestFirst() {
	p := s.seed("500/2024", models.GenreOther, "Ofício", "2024-01-01")
	first := &models.ChangeLogEntry{ID: uuid.New(), ProcessID: p.ID, Field: "object", OldValue: "a", NewValue: "b", ChangedAt: s.tick(), ChangedBy: "ana"}
	second := &models.ChangeLogEntry{ID: uuid.New(), ProcessID: p.ID, Field: "object", OldValue: "b", NewValue: "c", ChangedAt: s.tick(), ChangedBy: "ana"}
	s.Require().NoError(s.store.AppendChanges(s.ctx, []*models.ChangeLogEntry{first, second}))

	rec := &models.MonitoringRecord{ID: uuid.New(), ProcessID: p.ID, RegisteredAt: s.tick(), Note: "ok", RecordedBy: "ana"}
	s.Require().NoError(s.store.AppendMonitoringRecord(s.ctx, rec))

	changes, err := s.store.ListChanges(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(changes, 2)
	s.Equal("c", changes[0].NewValue)
	s.Equal("b", changes[1].NewValue)

	records, err := s.store.ListMonitoringRecords(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(rec.ID, records[0].ID)
	s.Equal("ok", records[0].Note)
}

func (s *storeContractSuite) TestDeleteCascades() {
	p := s.seed("600/2024", models.GenreOther, "Ofício", "2024-01-01")
	s.Require().NoError(s.store.AppendMonitoringRecord(s.ctx, &models.MonitoringRecord{
		ID: uuid.New(), ProcessID: p.ID, RegisteredAt: s.tick(), Note: "n", RecordedBy: "ana",
	}))
	s.Require().NoError(s.store.AppendChanges(s.ctx, []*models.ChangeLogEntry{{
		ID: uuid.New(), ProcessID: p.ID, Field: "object", ChangedAt: s.tick(), ChangedBy: "ana",
	}}))

	s.Require().NoError(s.store.Delete(s.ctx, p.ID))

	_, err := s.store.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	changes, err := s.store.ListChanges(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(changes)
	records, err := s.store.ListMonitoringRecords(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *storeContractSuite) TestCatalogue() {
	s.seed("1", models.GenreLiquidations, models.SpeciesAdvanceReport, "2024-01-01")
	s.seed("2", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-01")
	s.seed("3", models.GenreProcurementAndContracts, models.SpeciesSponsorshipConcession, "2024-01-01")

	genres, err := s.store.DistinctGenres(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.Genre{models.GenreProcurementAndContracts, models.GenreLiquidations}, genres)

	species, err := s.store.DistinctSpecies(s.ctx, []models.Genre{models.GenreLiquidations})
	s.Require().NoError(err)
	s.Equal([]string{models.SpeciesAdvanceReport, models.SpeciesAthleteGrantReport}, species)

	all, err := s.store.DistinctSpecies(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func ids(items []*models.Process) []id.ProcessID {
	out := make([]id.ProcessID, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
