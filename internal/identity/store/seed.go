package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	id "protocolo/pkg/domain"
)

// SeedUser is one entry of the users seed file. Either Password (hashed on
// load) or PasswordHash (bcrypt) must be set.
type SeedUser struct {
	Username     string         `yaml:"username"`
	Password     string         `yaml:"password"`
	PasswordHash string         `yaml:"password_hash"`
	Level        id.AccessLevel `yaml:"level"`
	Superuser    bool           `yaml:"superuser"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeed reads a YAML users file:
//
//	users:
//	  - username: admin
//	    password: change-me-now
//	    level: "3"
//	    superuser: true
func LoadSeed(path string) ([]SeedUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]SeedUser, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, u := range f.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("seed user %d: username is required", i)
		}
		if u.Password == "" && u.PasswordHash == "" {
			return nil, fmt.Errorf("seed user %q: password or password_hash is required", u.Username)
		}
		if !u.Level.Valid() {
			return nil, fmt.Errorf("seed user %q: invalid level %q", u.Username, u.Level)
		}
	}
	return f.Users, nil
}
