package domain

// AccessLevel is the office role of a user. It decides which genres a user may
// see and which operations they may perform.
type AccessLevel string

const (
	LevelProtocol           AccessLevel = "0"
	LevelProcurementAnalyst AccessLevel = "1"
	LevelLiquidationAnalyst AccessLevel = "2"
	LevelGeneral            AccessLevel = "3"
)

var levelLabels = map[AccessLevel]string{
	LevelProtocol:           "Protocolo",
	LevelProcurementAnalyst: "Analista 1 (Licitações e Contratos)",
	LevelLiquidationAnalyst: "Analista 2 (Liquidações)",
	LevelGeneral:            "Usuário Geral (Todos)",
}

// Valid reports whether l is one of the known levels.
func (l AccessLevel) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// Label is the human-readable level name.
func (l AccessLevel) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return string(l)
}

// Actor is the authenticated user acting on a request.
type Actor struct {
	ID        UserID
	Username  string
	Level     AccessLevel
	Superuser bool
}

// IsZero reports whether no actor is set.
func (a Actor) IsZero() bool {
	return a.ID.IsNil() && a.Username == ""
}

// System is the actor recorded for changes the system makes on its own.
var System = Actor{Username: "system"}

// Operation names an action gated by access level.
type Operation string

const (
	OpCreateProcess      Operation = "process.create"
	OpMarkExit           Operation = "process.mark_exit"
	OpUpdateProcess      Operation = "process.update"
	OpConcludeMonitoring Operation = "monitoring.conclude"
	OpDeleteProcess      Operation = "process.delete"
	OpManageUsers        Operation = "users.manage"
)
