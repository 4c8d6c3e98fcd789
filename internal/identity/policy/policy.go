// Package policy decides what an actor may see and do based on their office
// access level.
package policy

import (
	"slices"

	"protocolo/internal/process/models"
	id "protocolo/pkg/domain"
)

// LevelPolicy is the fixed access table of the office.
type LevelPolicy struct{}

func New() *LevelPolicy {
	return &LevelPolicy{}
}

// genreScopes lists the genres of restricted levels. Levels absent here see all genres.
var genreScopes = map[id.AccessLevel][]models.Genre{
	id.LevelProcurementAnalyst: {models.GenreProcurementAndContracts},
	id.LevelLiquidationAnalyst: {models.GenreLiquidations},
}

var operationLevels = map[id.Operation][]id.AccessLevel{
	id.OpCreateProcess:      {id.LevelProtocol, id.LevelGeneral},
	id.OpMarkExit:           {id.LevelProtocol, id.LevelGeneral},
	id.OpUpdateProcess:      {id.LevelProcurementAnalyst, id.LevelLiquidationAnalyst, id.LevelGeneral},
	id.OpConcludeMonitoring: {id.LevelProcurementAnalyst, id.LevelLiquidationAnalyst, id.LevelGeneral},
	// delete and user management are superuser-only
}

func (p *LevelPolicy) Allows(actor id.Actor, op id.Operation) bool {
	if actor.Superuser {
		return true
	}
	return slices.Contains(operationLevels[op], actor.Level)
}

func (p *LevelPolicy) CanAccessGenre(actor id.Actor, genre models.Genre) bool {
	scope := p.AccessibleGenres(actor)
	return scope == nil || slices.Contains(scope, genre)
}

// AccessibleGenres returns nil when the actor may see every genre. An actor
// with an unknown level gets an empty, non-nil scope and sees nothing.
func (p *LevelPolicy) AccessibleGenres(actor id.Actor) []models.Genre {
	if actor.Superuser {
		return nil
	}
	switch actor.Level {
	case id.LevelProtocol, id.LevelGeneral:
		return nil
	}
	if scope, ok := genreScopes[actor.Level]; ok {
		return slices.Clone(scope)
	}
	return []models.Genre{}
}
