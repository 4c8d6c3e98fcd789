package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"protocolo/internal/process/models"
	"protocolo/internal/process/service"
	"protocolo/internal/process/store"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/audit/publisher"
	auditmemory "protocolo/pkg/platform/audit/store/memory"
	"protocolo/pkg/requestcontext"
)

// Justification for unit tests: these walk the monitoring cycle end to end
// through the service and the in-memory store, the way a request would.
type FlowSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	audit   *publisher.Publisher
	service *service.Service
	actor   id.Actor
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

type allowAll struct{}

func (allowAll) Allows(id.Actor, id.Operation) bool         { return true }
func (allowAll) CanAccessGenre(id.Actor, models.Genre) bool { return true }
func (allowAll) AccessibleGenres(id.Actor) []models.Genre   { return nil }

func (s *FlowSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.audit = publisher.NewPublisher(auditmemory.NewInMemoryStore())
	s.service = service.New(s.store, allowAll{}, service.WithAuditPublisher(s.audit))
	s.actor = id.Actor{ID: id.NewUserID(), Username: "ana", Level: id.LevelGeneral}
}

func (s *FlowSuite) at(day string) context.Context {
	d, err := models.ParseDate(day)
	s.Require().NoError(err)
	ctx := requestcontext.WithActor(context.Background(), s.actor)
	return requestcontext.WithTime(ctx, d.Time().Add(14*time.Hour+30*time.Minute))
}

func (s *FlowSuite) create(ctx context.Context, number string, genre models.Genre, species, entry string) *models.Process {
	p, err := s.service.Create(ctx, &models.CreateProcessRequest{
		Number:     number,
		Department: "SEMEL",
		EntryDate:  entry,
		EntryTime:  "09:00",
		Genre:      string(genre),
		Species:    species,
		Object:     "Prestação de contas",
		Priority:   "NAO",
	})
	s.Require().NoError(err)
	return p
}

func (s *FlowSuite) TestCreateSchedulesSemiAnnualCycle() {
	p := s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")

	s.Equal(models.CadenceSemiAnnual, p.Cadence)
	s.Equal(models.MonitoringPending, p.Monitoring)
	s.Require().NotNil(p.NextDue)
	s.Equal("2024-07-08", p.NextDue.String())
	s.Equal(7, p.DeadlineDays)

	events, err := s.audit.List(context.Background(), p.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventProcessCreated), events[0].Action)
	s.Equal("ana", events[0].Actor)
}

func (s *FlowSuite) TestCreateOutsideRuleTableIsNotApplicable() {
	p := s.create(s.at("2024-01-10"), "9", models.GenreOther, "Ofício", "2024-01-10")
	s.Equal(models.CadenceNotApplicable, p.Cadence)
	s.Equal(models.MonitoringNotApplicable, p.Monitoring)
	s.Nil(p.NextDue)
}

func (s *FlowSuite) TestNewReportSupersedesOpenCycle() {
	a := s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")
	other := s.create(s.at("2024-01-10"), "456", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")

	b := s.create(s.at("2024-02-01"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-02-01")
	s.Equal(models.MonitoringPending, b.Monitoring)

	prev, err := s.store.FindByID(context.Background(), a.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringConcluded, prev.Monitoring)
	s.Equal(models.CadenceNotApplicable, prev.Cadence)
	s.Nil(prev.NextDue)

	records, err := s.store.ListMonitoringRecords(context.Background(), a.ID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Contains(records[0].Note, "123")
	s.Contains(records[0].Note, models.SpeciesAthleteGrantReport)

	untouched, err := s.store.FindByID(context.Background(), other.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringPending, untouched.Monitoring)

	events, err := s.audit.List(context.Background(), a.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventMonitoringSuperseded), events[1].Action)
}

func (s *FlowSuite) TestExitUpdateRebasesCycle() {
	ctx := s.at("2024-01-01")
	p := s.create(ctx, "77", models.GenreProcurementAndContracts, models.SpeciesSponsorshipConcession, "2024-01-01")
	s.Equal(models.CadenceQuarterly, p.Cadence)
	s.Equal("2024-03-31", p.NextDue.String())

	exitDate, exitTime := "2024-03-01", "16:00"
	updated, err := s.service.Update(s.at("2024-03-01"), p.ID, &models.UpdateProcessRequest{
		ExitDate: &exitDate,
		ExitTime: &exitTime,
	})
	s.Require().NoError(err)
	s.Equal(models.CadenceQuarterly, updated.Cadence)
	s.Equal(models.MonitoringPending, updated.Monitoring)
	s.Equal("2024-05-30", updated.NextDue.String())

	history, err := s.service.History(ctx, p.ID)
	s.Require().NoError(err)
	fields := map[string]string{}
	for _, c := range history.Changes {
		fields[c.Field] = c.NewValue
	}
	s.Equal("2024-03-01", fields["exit_date"])
	s.Equal("16:00", fields["exit_time"])
}

func (s *FlowSuite) TestUpdateWithoutChangesWritesNothing() {
	p := s.create(s.at("2024-01-01"), "77", models.GenreOther, "Ofício", "2024-01-01")
	object := p.Object

	_, err := s.service.Update(s.at("2024-01-02"), p.ID, &models.UpdateProcessRequest{Object: &object})
	s.Require().NoError(err)

	changes, err := s.store.ListChanges(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Empty(changes)
}

func (s *FlowSuite) TestConcludeTwiceAppendsTwoRecords() {
	p := s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")

	first, err := s.service.Conclude(s.at("2024-02-01"), p.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringConcluded, first.Monitoring)
	s.Nil(first.NextDue)
	s.Require().NotNil(first.ExitDate)
	s.Equal("2024-02-01", first.ExitDate.String())
	s.Equal("14:30:00", first.ExitTime.Full())

	second, err := s.service.Conclude(s.at("2024-02-02"), p.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringConcluded, second.Monitoring)
	s.Nil(second.NextDue)
	s.Equal("2024-02-01", second.ExitDate.String())

	history, err := s.service.History(s.at("2024-02-02"), p.ID)
	s.Require().NoError(err)
	s.Len(history.Monitoring, 2)
	s.Len(history.Changes, 2, "exit stamp is logged once")
	for _, c := range history.Changes {
		s.Empty(c.OldValue)
	}
}

func (s *FlowSuite) TestMarkExit() {
	p := s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")

	closed, err := s.service.MarkExit(s.at("2024-01-15"), p.ID)
	s.Require().NoError(err)
	s.Equal("2024-01-15", closed.ExitDate.String())
	s.Equal(models.MonitoringPending, closed.Monitoring, "mark exit leaves monitoring alone")
	s.Equal(p.NextDue.String(), closed.NextDue.String())

	_, err = s.service.MarkExit(s.at("2024-01-16"), p.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *FlowSuite) TestListClosedReconcilesOverdue() {
	req := &models.CreateProcessRequest{
		Number:     "555",
		Department: "SEMEL",
		EntryDate:  "2023-12-01",
		EntryTime:  "09:00",
		ExitDate:   "2024-01-01",
		ExitTime:   "10:00",
		Genre:      string(models.GenreLiquidations),
		Species:    models.SpeciesAdvanceReport,
		Object:     "Adiantamento",
		Priority:   "SIM",
	}
	p, err := s.service.Create(s.at("2024-01-01"), req)
	s.Require().NoError(err)
	s.Equal("2024-03-31", p.NextDue.String())

	onTime, err := s.service.ListClosed(s.at("2024-03-31"), models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(onTime, 1)
	s.Equal(models.MonitoringPending, onTime[0].Monitoring)

	late, err := s.service.ListClosed(s.at("2024-04-01"), models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(late, 1)
	s.Equal(models.MonitoringOverdue, late[0].Monitoring)

	stored, err := s.store.FindByID(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringOverdue, stored.Monitoring, "reconcile is persisted")

	events, err := s.audit.List(context.Background(), p.ID.String())
	s.Require().NoError(err)
	s.Equal(string(audit.EventMonitoringOverdue), events[len(events)-1].Action)
}

func (s *FlowSuite) TestListClosedFiltersOnReconciledStatus() {
	req := &models.CreateProcessRequest{
		Number:     "555",
		Department: "SEMEL",
		EntryDate:  "2023-12-01",
		EntryTime:  "09:00",
		ExitDate:   "2024-01-01",
		ExitTime:   "10:00",
		Genre:      string(models.GenreLiquidations),
		Species:    models.SpeciesAdvanceReport,
		Object:     "Adiantamento",
		Priority:   "NAO",
	}
	p, err := s.service.Create(s.at("2024-01-01"), req)
	s.Require().NoError(err)
	s.Equal(models.MonitoringPending, p.Monitoring)

	overdue, err := s.service.ListClosed(s.at("2024-04-01"), models.ListFilter{Monitoring: models.MonitoringOverdue})
	s.Require().NoError(err)
	s.Require().Len(overdue, 1, "a row that becomes overdue during this read is included")
	s.Equal(p.ID, overdue[0].ID)
	s.Equal(models.MonitoringOverdue, overdue[0].Monitoring)

	pending, err := s.service.ListClosed(s.at("2024-04-01"), models.ListFilter{Monitoring: models.MonitoringPending})
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *FlowSuite) TestListClosedPendingFilterDropsPromotedRows() {
	req := &models.CreateProcessRequest{
		Number:     "556",
		Department: "SEMEL",
		EntryDate:  "2023-12-01",
		EntryTime:  "09:00",
		ExitDate:   "2024-01-01",
		ExitTime:   "10:00",
		Genre:      string(models.GenreLiquidations),
		Species:    models.SpeciesAdvanceReport,
		Object:     "Adiantamento",
		Priority:   "NAO",
	}
	p, err := s.service.Create(s.at("2024-01-01"), req)
	s.Require().NoError(err)

	pending, err := s.service.ListClosed(s.at("2024-04-01"), models.ListFilter{Monitoring: models.MonitoringPending})
	s.Require().NoError(err)
	s.Empty(pending, "the row was promoted to overdue by this read")

	stored, err := s.store.FindByID(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Equal(models.MonitoringOverdue, stored.Monitoring, "the promotion is still persisted")
}

func (s *FlowSuite) TestListOpenCarriesDeadline() {
	req := &models.CreateProcessRequest{
		Number:     "1",
		Department: "SEMEL",
		EntryDate:  "2024-01-10",
		EntryTime:  "09:00",
		Genre:      string(models.GenreOther),
		Species:    "Ofício",
		Object:     "Pedido",
		Priority:   "SIM",
	}
	_, err := s.service.Create(s.at("2024-01-10"), req)
	s.Require().NoError(err)

	items, err := s.service.ListOpen(s.at("2024-01-10"), models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("2024-01-12", items[0].Deadline.String())
	s.Equal("2 dia(s) restante(s)", items[0].Remaining)

	items, err = s.service.ListOpen(s.at("2024-01-15"), models.ListFilter{})
	s.Require().NoError(err)
	s.Equal("-3 dia(s) atrasado", items[0].Remaining)
}

func (s *FlowSuite) TestDeleteRemovesHistory() {
	p := s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")
	_, err := s.service.Conclude(s.at("2024-01-11"), p.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.at("2024-01-12"), p.ID))

	_, err = s.service.Get(s.at("2024-01-12"), p.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	records, err := s.store.ListMonitoringRecords(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *FlowSuite) TestLatestByNumberAndCatalogue() {
	s.create(s.at("2024-01-10"), "123", models.GenreLiquidations, models.SpeciesAthleteGrantReport, "2024-01-10")
	latest := s.create(s.at("2024-02-10"), "123", models.GenreLiquidations, models.SpeciesAdvanceReport, "2024-02-10")

	got, err := s.service.LatestByNumber(s.at("2024-02-10"), "123")
	s.Require().NoError(err)
	s.Equal(latest.ID, got.ID)

	genres, err := s.service.Genres(s.at("2024-02-10"))
	s.Require().NoError(err)
	s.Equal([]models.Genre{models.GenreLiquidations}, genres)

	species, err := s.service.Species(s.at("2024-02-10"), models.GenreLiquidations)
	s.Require().NoError(err)
	s.Equal([]string{models.SpeciesAdvanceReport, models.SpeciesAthleteGrantReport}, species)
}
