package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "protocolo/pkg/domain-errors"
)

// Typed IDs keep user and process identifiers from being swapped at call sites.
type (
	UserID    uuid.UUID
	ProcessID uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ProcessID) String() string { return uuid.UUID(id).String() }
func (id ProcessID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewProcessID returns a fresh random process ID.
func NewProcessID() ProcessID { return ProcessID(uuid.New()) }

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// ParseUserID parses a non-nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

// ParseProcessID parses a non-nil UUID.
func ParseProcessID(s string) (ProcessID, error) {
	u, err := parseUUID(s, "process")
	return ProcessID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" ID required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" ID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" ID cannot be nil")
	}
	return u, nil
}
