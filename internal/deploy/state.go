package deploy

// State is a step in a function's deployment.
type State int

const (
	StateResolving State = iota
	StateBuilding
	StateSubmitting
	StateCreated
	StateVerifying
	StateAlreadyExists
	StateFailed
	StateDone
)

var stateNames = map[State]string{
	StateResolving:     "resolving",
	StateBuilding:      "building",
	StateSubmitting:    "submitting",
	StateCreated:       "created",
	StateVerifying:     "verifying",
	StateAlreadyExists: "already-exists",
	StateFailed:        "failed",
	StateDone:          "done",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
