package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"protocolo/internal/identity/models"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/sentinel"
	"protocolo/pkg/requestcontext"
)

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lookup user")
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		s.loginFailed(ctx, req.Username, "unknown username")
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.loginFailed(ctx, req.Username, "wrong password")
		return nil, errInvalidCredentials
	}

	issued, err := s.tokens.GenerateAccessToken(user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	s.logAudit(ctx, audit.EventLoginSucceeded, user.Actor(), user.ID.String())

	return &models.LoginResult{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		User:        models.NewUserView(user),
	}, nil
}

func (s *Service) loginFailed(ctx context.Context, username, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementLoginFailures()
	}
	s.logAudit(ctx, audit.EventAuthFailed, id.Actor{Username: username}, username, "reason", reason)
}

// Logout revokes the access token of the current request until it expires.
func (s *Service) Logout(ctx context.Context) error {
	actor, ok := requestcontext.Actor(ctx)
	if !ok || actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	jti, expiresAt := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "token has no identifier")
	}
	ttl := expiresAt.Sub(s.now())
	if ttl > 0 {
		if err := s.revocations.RevokeToken(ctx, jti, ttl); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		}
	}
	s.logAudit(ctx, audit.EventLoggedOut, actor, actor.ID.String())
	return nil
}

// IsTokenRevoked reports whether jti was revoked by a logout.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revocations.IsRevoked(ctx, jti)
}

// LoadActor resolves the current state of a token's user, so level changes
// and deletions apply to tokens already issued.
func (s *Service) LoadActor(ctx context.Context, userID id.UserID) (id.Actor, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "user no longer exists")
		}
		return id.Actor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user.Actor(), nil
}
