package store

// State is the lifecycle of a store instance.
//
//	Uninitialized -> Loading -> Ready
//	Ready         -> Loading -> Ready   (every Load)
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
