package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"protocolo/internal/identity/models"
	"protocolo/internal/identity/policy"
	"protocolo/internal/identity/revocation"
	"protocolo/internal/identity/service"
	"protocolo/internal/identity/store"
	jwttoken "protocolo/internal/jwt_token"
	"protocolo/internal/platform/metrics"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/audit/publisher"
	auditmemory "protocolo/pkg/platform/audit/store/memory"
	"protocolo/pkg/requestcontext"
)

// Justification for unit tests: login, logout and account management are
// exercised against real collaborators so token and revocation wiring is covered.
type IdentitySuite struct {
	suite.Suite
	users   *store.InMemoryUserStore
	trl     *revocation.InMemoryTRL
	jwt     *jwttoken.JWTService
	audit   *publisher.Publisher
	metrics *metrics.Metrics
	service *service.Service
	admin   id.Actor
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) SetupTest() {
	s.users = store.New()
	s.trl = revocation.NewInMemoryTRL()
	s.jwt = jwttoken.NewJWTService("test-key", "protocolo")
	s.audit = publisher.NewPublisher(auditmemory.NewInMemoryStore())
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.service = service.New(s.users, s.jwt, s.trl, policy.New(),
		service.WithAuditPublisher(s.audit),
		service.WithMetrics(s.metrics),
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithTokenTTL(time.Hour),
	)

	n, err := s.service.SeedUsers(context.Background(), []store.SeedUser{
		{Username: "Admin", Password: "admin-pass", Level: id.LevelGeneral, Superuser: true},
	})
	s.Require().NoError(err)
	s.Require().Equal(1, n)

	admin, err := s.users.FindByUsername(context.Background(), "admin")
	s.Require().NoError(err)
	s.admin = admin.Actor()
}

func (s *IdentitySuite) as(actor id.Actor) context.Context {
	return requestcontext.WithActor(context.Background(), actor)
}

func (s *IdentitySuite) register(username, level string) *models.UserView {
	view, err := s.service.Register(s.as(s.admin), &models.RegisterRequest{
		Username: username, Password: "password-" + username, Level: level,
	})
	s.Require().NoError(err)
	return view
}

func (s *IdentitySuite) TestLoginIssuesValidToken() {
	result, err := s.service.Login(context.Background(), &models.LoginRequest{Username: " ADMIN ", Password: "admin-pass"})
	s.Require().NoError(err)
	s.Equal("Bearer", result.TokenType)
	s.Equal("admin", result.User.Username)
	s.True(result.User.Superuser)

	claims, err := s.jwt.ValidateToken(result.AccessToken)
	s.Require().NoError(err)
	s.Equal(s.admin.ID, claims.ParsedUserID())
	s.WithinDuration(result.ExpiresAt, claims.ExpiresAtTime(), time.Second)

	events, err := s.audit.List(context.Background(), s.admin.ID.String())
	s.Require().NoError(err)
	s.Equal(string(audit.EventLoginSucceeded), events[len(events)-1].Action)
}

func (s *IdentitySuite) TestLoginFailuresLookAlike() {
	_, wrongPassword := s.service.Login(context.Background(), &models.LoginRequest{Username: "admin", Password: "nope-nope"})
	_, unknownUser := s.service.Login(context.Background(), &models.LoginRequest{Username: "ghost", Password: "nope-nope"})

	s.Require().Error(wrongPassword)
	s.Require().Error(unknownUser)
	s.True(dErrors.HasCode(wrongPassword, dErrors.CodeUnauthorized))
	s.Equal(dErrors.MessageOf(wrongPassword), dErrors.MessageOf(unknownUser))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.LoginFailures))

	events, err := s.audit.List(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventAuthFailed), events[0].Action)
	s.Equal("unknown username", events[0].Reason)
}

func (s *IdentitySuite) TestLoginValidation() {
	_, err := s.service.Login(context.Background(), &models.LoginRequest{Username: "admin"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *IdentitySuite) TestLogoutRevokesToken() {
	ctx := s.as(s.admin)
	ctx = requestcontext.WithTokenID(ctx, "jti-1", time.Now().Add(time.Hour))

	s.Require().NoError(s.service.Logout(ctx))
	revoked, err := s.service.IsTokenRevoked(context.Background(), "jti-1")
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *IdentitySuite) TestLogoutWithExpiredTokenIsNoop() {
	ctx := requestcontext.WithTokenID(s.as(s.admin), "jti-old", time.Now().Add(-time.Minute))
	s.Require().NoError(s.service.Logout(ctx))
	revoked, err := s.service.IsTokenRevoked(context.Background(), "jti-old")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *IdentitySuite) TestLogoutRequiresActor() {
	err := s.service.Logout(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentitySuite) TestRegisterAndLogin() {
	view := s.register("bruno", "2")
	s.Equal("Analista 2 (Liquidações)", view.LevelLabel)

	result, err := s.service.Login(context.Background(), &models.LoginRequest{Username: "bruno", Password: "password-bruno"})
	s.Require().NoError(err)
	s.False(result.User.Superuser)
}

func (s *IdentitySuite) TestRegisterDuplicateUsername() {
	s.register("bruno", "1")
	_, err := s.service.Register(s.as(s.admin), &models.RegisterRequest{
		Username: "BRUNO", Password: "another-pass", Level: "3",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *IdentitySuite) TestUserManagementIsSuperuserOnly() {
	view := s.register("carla", "3")
	uid, err := id.ParseUserID(view.ID)
	s.Require().NoError(err)
	carla := id.Actor{ID: uid, Username: "carla", Level: id.LevelGeneral}

	_, err = s.service.Register(s.as(carla), &models.RegisterRequest{Username: "x", Password: "password-x", Level: "1"})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.ListUsers(s.as(carla))
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.ListUsers(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentitySuite) TestUpdateLevelAppliesToLoadedActor() {
	view := s.register("davi", "1")
	uid, err := id.ParseUserID(view.ID)
	s.Require().NoError(err)

	updated, err := s.service.UpdateLevel(s.as(s.admin), uid, &models.UpdateLevelRequest{Level: "2"})
	s.Require().NoError(err)
	s.Equal("2", updated.Level)

	actor, err := s.service.LoadActor(context.Background(), uid)
	s.Require().NoError(err)
	s.Equal(id.LevelLiquidationAnalyst, actor.Level)

	events, err := s.audit.List(context.Background(), uid.String())
	s.Require().NoError(err)
	last := events[len(events)-1]
	s.Equal(string(audit.EventUserLevelChanged), last.Action)
	s.Equal("level 1 -> 2", last.Reason)

	_, err = s.service.UpdateLevel(s.as(s.admin), uid, &models.UpdateLevelRequest{Level: "5"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.UpdateLevel(s.as(s.admin), id.NewUserID(), &models.UpdateLevelRequest{Level: "2"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *IdentitySuite) TestDeleteUser() {
	view := s.register("elis", "0")
	uid, err := id.ParseUserID(view.ID)
	s.Require().NoError(err)

	err = s.service.DeleteUser(s.as(s.admin), s.admin.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	s.Require().NoError(s.service.DeleteUser(s.as(s.admin), uid))
	_, err = s.service.LoadActor(context.Background(), uid)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	err = s.service.DeleteUser(s.as(s.admin), uid)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *IdentitySuite) TestListUsers() {
	s.register("zeca", "1")
	s.register("bia", "2")

	users, err := s.service.ListUsers(s.as(s.admin))
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal([]string{"admin", "bia", "zeca"}, []string{users[0].Username, users[1].Username, users[2].Username})
}

func (s *IdentitySuite) TestSeedUsersIsIdempotent() {
	n, err := s.service.SeedUsers(context.Background(), []store.SeedUser{
		{Username: "admin", Password: "other-pass", Level: id.LevelProtocol},
		{Username: "protocolo", Password: "proto-pass", Level: id.LevelProtocol},
	})
	s.Require().NoError(err)
	s.Equal(1, n)

	// existing admin keeps its original password
	_, err = s.service.Login(context.Background(), &models.LoginRequest{Username: "admin", Password: "admin-pass"})
	s.NoError(err)
}
