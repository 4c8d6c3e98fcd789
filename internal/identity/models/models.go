package models

import (
	"strings"
	"time"

	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 150
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
)

// User is an office account. PasswordHash is a bcrypt hash and never leaves
// the identity service.
type User struct {
	ID           id.UserID      `json:"id" yaml:"-"`
	Username     string         `json:"username" yaml:"username"`
	PasswordHash string         `json:"-" yaml:"password_hash"`
	Level        id.AccessLevel `json:"level" yaml:"level"`
	Superuser    bool           `json:"superuser" yaml:"superuser"`
	CreatedAt    time.Time      `json:"created_at" yaml:"-"`
}

// Actor is the view of the user the rest of the system acts on.
func (u *User) Actor() id.Actor {
	return id.Actor{
		ID:        u.ID,
		Username:  u.Username,
		Level:     u.Level,
		Superuser: u.Superuser,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Username == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "username and password are required")
	}
	return nil
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserView  `json:"user"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Level     string `json:"level"`
	Superuser bool   `json:"superuser"`
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Level = strings.TrimSpace(r.Level)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Username) > maxUsernameLength {
		return dErrors.New(dErrors.CodeValidation, "username must be 150 characters or less")
	}
	if len(r.Password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be 72 bytes or less")
	}
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if r.Level == "" {
		return dErrors.New(dErrors.CodeValidation, "level is required")
	}
	if strings.ContainsAny(r.Username, " \t\n") {
		return dErrors.New(dErrors.CodeValidation, "username must not contain whitespace")
	}
	if !id.AccessLevel(r.Level).Valid() {
		return dErrors.New(dErrors.CodeValidation, "level must be one of 0, 1, 2, 3")
	}
	if len(r.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

type UpdateLevelRequest struct {
	Level string `json:"level"`
}

func (r *UpdateLevelRequest) Normalize() {
	if r == nil {
		return
	}
	r.Level = strings.TrimSpace(r.Level)
}

func (r *UpdateLevelRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Level == "" {
		return dErrors.New(dErrors.CodeValidation, "level is required")
	}
	if !id.AccessLevel(r.Level).Valid() {
		return dErrors.New(dErrors.CodeValidation, "level must be one of 0, 1, 2, 3")
	}
	return nil
}

// UserView is the public representation of a user.
type UserView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Level      string    `json:"level"`
	LevelLabel string    `json:"level_label"`
	Superuser  bool      `json:"superuser"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:         u.ID.String(),
		Username:   u.Username,
		Level:      string(u.Level),
		LevelLabel: u.Level.Label(),
		Superuser:  u.Superuser,
		CreatedAt:  u.CreatedAt,
	}
}
