package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"protocolo/internal/identity/models"
	jwttoken "protocolo/internal/jwt_token"
	"protocolo/internal/platform/metrics"
	"protocolo/pkg/attrs"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/sentinel"
	"protocolo/pkg/requestcontext"
)

const defaultTokenTTL = 8 * time.Hour

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, username string, expiresIn time.Duration) (jwttoken.IssuedToken, error)
}

type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Policy interface {
	Allows(actor id.Actor, op id.Operation) bool
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service authenticates office users and manages their accounts.
type Service struct {
	users          UserStore
	tokens         TokenIssuer
	revocations    TokenRevocationList
	policy         Policy
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tokenTTL       time.Duration
	bcryptCost     int
	now            func() time.Time

	// dummyHash is compared against when the username is unknown so both
	// failure paths take the same time.
	dummyHash []byte
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(users UserStore, tokens TokenIssuer, revocations TokenRevocationList, policy Policy, opts ...Option) *Service {
	s := &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		policy:      policy,
		tokenTTL:    defaultTokenTTL,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("protocolo-dummy-password"), s.bcryptCost)
	return s
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return string(hash), nil
}

func (s *Service) requireManager(ctx context.Context) (id.Actor, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok || actor.IsZero() {
		return id.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !s.policy.Allows(actor, id.OpManageUsers) {
		return id.Actor{}, dErrors.New(dErrors.CodeForbidden, "only superusers can manage users")
	}
	return actor, nil
}

func translateStoreError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "username already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, actor id.Actor, subject string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit", "actor", actor.Username, "subject", subject)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Category:  event.Category(),
		ActorID:   actor.ID,
		Actor:     actor.Username,
		Subject:   subject,
		Action:    string(event),
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestID,
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event", "event", string(event), "error", err)
	}
}
