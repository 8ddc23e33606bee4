package service

// State is the dispatcher's position inside a cycle.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateEvaluating
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateEvaluating:
		return "evaluating"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}
