package service

import (
	"context"
	"errors"
	"strings"

	"protocolo/internal/identity/models"
	"protocolo/internal/identity/store"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/sentinel"
)

func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error) {
	actor, err := s.requireManager(ctx)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           id.NewUserID(),
		Username:     req.Username,
		PasswordHash: hash,
		Level:        id.AccessLevel(req.Level),
		Superuser:    req.Superuser,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateStoreError(err, "create user")
	}
	s.logAudit(ctx, audit.EventUserCreated, actor, user.ID.String(),
		"username", user.Username, "level", string(user.Level))

	view := models.NewUserView(user)
	return &view, nil
}

func (s *Service) UpdateLevel(ctx context.Context, userID id.UserID, req *models.UpdateLevelRequest) (*models.UserView, error) {
	actor, err := s.requireManager(ctx)
	if err != nil {
		return nil, err
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err, "lookup user")
	}

	previous := user.Level
	user.Level = id.AccessLevel(req.Level)
	if previous != user.Level {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, translateStoreError(err, "update user")
		}
		s.logAudit(ctx, audit.EventUserLevelChanged, actor, user.ID.String(),
			"reason", "level "+string(previous)+" -> "+string(user.Level))
	}
	view := models.NewUserView(user)
	return &view, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	actor, err := s.requireManager(ctx)
	if err != nil {
		return err
	}
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	if userID == actor.ID {
		return dErrors.New(dErrors.CodeBadRequest, "you cannot delete your own account")
	}

	// Capture user before deletion to enrich audit events
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return translateStoreError(err, "lookup user")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return translateStoreError(err, "delete user")
	}
	s.logAudit(ctx, audit.EventUserDeleted, actor, userID.String(), "username", user.Username)
	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.UserView, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list users")
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, models.NewUserView(u))
	}
	return views, nil
}

// SeedUsers creates the seed accounts that do not exist yet and returns how
// many were created. It runs at startup without an actor.
func (s *Service) SeedUsers(ctx context.Context, seeds []store.SeedUser) (int, error) {
	created := 0
	for _, seed := range seeds {
		seed.Username = strings.ToLower(strings.TrimSpace(seed.Username))
		_, err := s.users.FindByUsername(ctx, seed.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return created, translateStoreError(err, "lookup user")
		}

		hash := seed.PasswordHash
		if hash == "" {
			if hash, err = s.hashPassword(seed.Password); err != nil {
				return created, err
			}
		}
		user := &models.User{
			ID:           id.NewUserID(),
			Username:     seed.Username,
			PasswordHash: hash,
			Level:        seed.Level,
			Superuser:    seed.Superuser,
			CreatedAt:    s.now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return created, translateStoreError(err, "seed user")
		}
		s.logAudit(ctx, audit.EventUserCreated, id.System, user.ID.String(),
			"username", user.Username, "level", string(user.Level))
		created++
	}
	return created, nil
}
