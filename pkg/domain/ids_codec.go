package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

func (id ProcessID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *ProcessID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id ProcessID) Value() (driver.Value, error)  { return id.String(), nil }
func (id *ProcessID) Scan(src any) error           { return (*uuid.UUID)(id).Scan(src) }

func (id UserID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *UserID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id UserID) Value() (driver.Value, error)  { return id.String(), nil }
func (id *UserID) Scan(src any) error           { return (*uuid.UUID)(id).Scan(src) }
