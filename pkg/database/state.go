package database

// State is the lifecycle position of a Database.
type State int

const (
	// StateFresh means nothing has been accumulated since the last Clear.
	StateFresh State = iota
	// StateBuilding means query intent has been accumulated but not run.
	StateBuilding
	// StateExecuted means a statement has run and may still hold rows.
	StateExecuted
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateBuilding:
		return "building"
	case StateExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// State reports the current lifecycle state.
func (d *Database) State() State {
	switch {
	case d.stmt != nil:
		return StateExecuted
	case d.builder == nil || d.builder.IsEmpty():
		return StateFresh
	default:
		return StateBuilding
	}
}
