package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"protocolo/internal/process/models"
	"protocolo/internal/process/service"
	"protocolo/internal/process/service/mocks"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/sentinel"
	"protocolo/pkg/requestcontext"
)

// Justification for unit tests: access gates, error translation and audit
// side effects depend on collaborator answers that are easiest to force with
// mocks.
type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	tx        *mocks.MockStoreTx
	policy    *mocks.MockAccessPolicy
	publisher *mocks.MockAuditPublisher
	service   *service.Service
	actor     id.Actor
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.tx = mocks.NewMockStoreTx(s.ctrl)
	s.policy = mocks.NewMockAccessPolicy(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = service.New(s.store, s.policy,
		service.WithTx(s.tx),
		service.WithAuditPublisher(s.publisher),
	)
	s.actor = id.Actor{ID: id.NewUserID(), Username: "bia", Level: id.LevelLiquidationAnalyst}
	ctx := requestcontext.WithActor(context.Background(), s.actor)
	s.ctx = requestcontext.WithTime(ctx, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(service.Store) error) error {
			return fn(s.store)
		}).AnyTimes()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) process(genre models.Genre) *models.Process {
	return &models.Process{
		ID:         id.NewProcessID(),
		Number:     "123",
		EntryDate:  models.NewDate(2024, time.January, 10),
		EntryTime:  models.NewTimeOfDay(9, 0, 0),
		Genre:      genre,
		Species:    models.SpeciesAdvanceReport,
		Priority:   models.PriorityNormal,
		Cadence:    models.CadenceNotApplicable,
		Monitoring: models.MonitoringNotApplicable,
	}
}

func (s *ServiceSuite) TestAnonymousRequestIsUnauthorized() {
	_, err := s.service.Get(context.Background(), id.NewProcessID())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestCreateRequiresOperation() {
	s.policy.EXPECT().Allows(s.actor, id.OpCreateProcess).Return(false)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventProcessAccessDenied), e.Action)
			s.Equal(audit.CategorySecurity, e.Category)
			return nil
		})

	_, err := s.service.Create(s.ctx, &models.CreateProcessRequest{})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestCreateRejectsInvalidDateBeforeTouchingStore() {
	s.policy.EXPECT().Allows(s.actor, id.OpCreateProcess).Return(true)

	_, err := s.service.Create(s.ctx, &models.CreateProcessRequest{
		Number:     "1",
		Department: "SEMEL",
		EntryDate:  "10/01/2024",
		EntryTime:  "09:00",
		Genre:      string(models.GenreOther),
		Species:    "Ofício",
		Object:     "x",
		Priority:   "NAO",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateRequiresGenreAccess() {
	s.policy.EXPECT().Allows(s.actor, id.OpCreateProcess).Return(true)
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreProcurementAndContracts).Return(false)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Create(s.ctx, &models.CreateProcessRequest{
		Number:     "1",
		Department: "SEMEL",
		EntryDate:  "2024-01-10",
		EntryTime:  "09:00",
		Genre:      string(models.GenreProcurementAndContracts),
		Species:    models.SpeciesSponsorshipConcession,
		Object:     "x",
		Priority:   "NAO",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailCreate() {
	s.policy.EXPECT().Allows(s.actor, id.OpCreateProcess).Return(true)
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreOther).Return(true)
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

	p, err := s.service.Create(s.ctx, &models.CreateProcessRequest{
		Number:     "1",
		Department: "SEMEL",
		EntryDate:  "2024-01-10",
		EntryTime:  "09:00",
		Genre:      string(models.GenreOther),
		Species:    "Ofício",
		Object:     "x",
		Priority:   "SIM",
	})
	s.Require().NoError(err)
	s.Equal(2, p.DeadlineDays)
}

func (s *ServiceSuite) TestUpdateMissingProcessIsNotFound() {
	processID := id.NewProcessID()
	object := "novo"
	s.policy.EXPECT().Allows(s.actor, id.OpUpdateProcess).Return(true)
	s.store.EXPECT().FindByID(gomock.Any(), processID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Update(s.ctx, processID, &models.UpdateProcessRequest{Object: &object})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdateGenreChangeNeedsAccessToNewGenre() {
	p := s.process(models.GenreLiquidations)
	genre := string(models.GenreProcurementAndContracts)
	s.policy.EXPECT().Allows(s.actor, id.OpUpdateProcess).Return(true)
	s.store.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil)
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreLiquidations).Return(true)
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreProcurementAndContracts).Return(false)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Update(s.ctx, p.ID, &models.UpdateProcessRequest{Genre: &genre})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestUpdateStoreFailureIsInternal() {
	p := s.process(models.GenreOther)
	object := "novo"
	s.policy.EXPECT().Allows(s.actor, id.OpUpdateProcess).Return(true)
	s.store.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil)
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreOther).Return(true)
	s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.service.Update(s.ctx, p.ID, &models.UpdateProcessRequest{Object: &object})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestDeleteIsSuperuserOnly() {
	s.policy.EXPECT().Allows(s.actor, id.OpDeleteProcess).Return(false)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	err := s.service.Delete(s.ctx, id.NewProcessID())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestGetOutsideGenreIsForbidden() {
	p := s.process(models.GenreProcurementAndContracts)
	s.store.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil)
	s.policy.EXPECT().CanAccessGenre(s.actor, p.Genre).Return(false)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Get(s.ctx, p.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestListScopesByAccessibleGenres() {
	scope := []models.Genre{models.GenreLiquidations}
	s.policy.EXPECT().AccessibleGenres(s.actor).Return(scope)
	s.store.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.ListFilter) ([]*models.Process, error) {
			s.True(f.Closed)
			s.Equal(scope, f.Genres)
			s.Empty(f.Monitoring, "status is matched after reconcile")
			return nil, nil
		})

	items, err := s.service.ListClosed(s.ctx, models.ListFilter{Monitoring: models.MonitoringOverdue})
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *ServiceSuite) TestListClosedPersistFailureSurfaces() {
	p := s.process(models.GenreLiquidations)
	due := models.NewDate(2024, time.February, 1)
	exit := models.NewDate(2024, time.January, 20)
	exitTime := models.NewTimeOfDay(10, 0, 0)
	p.ExitDate, p.ExitTime = &exit, &exitTime
	p.ApplyMonitoring(models.CadenceQuarterly, models.MonitoringPending, &due)

	s.policy.EXPECT().AccessibleGenres(s.actor).Return(nil)
	s.store.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*models.Process{p}, nil)
	s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.service.ListClosed(s.ctx, models.ListFilter{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(models.MonitoringPending, p.Monitoring, "listed value is not mutated in place")
}

func (s *ServiceSuite) TestSpeciesForInaccessibleGenre() {
	s.policy.EXPECT().AccessibleGenres(s.actor).Return([]models.Genre{models.GenreLiquidations})
	s.policy.EXPECT().CanAccessGenre(s.actor, models.GenreProcurementAndContracts).Return(false)

	_, err := s.service.Species(s.ctx, models.GenreProcurementAndContracts)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
