package asr_relay

// State is the lifecycle state of a relay session. It only moves forward.
type State int

const (
	StateConnecting State = iota
	StateActive
	StateTerminating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateActive:
		return "ACTIVE"
	case StateTerminating:
		return "TERMINATING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// canTransition reports whether s may move to next. CLOSED is reachable from
// every state and is absorbing.
func (s State) canTransition(next State) bool {
	switch next {
	case StateActive:
		return s == StateConnecting
	case StateTerminating:
		return s == StateActive
	case StateClosed:
		return s != StateClosed
	default:
		return false
	}
}
