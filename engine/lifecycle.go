package engine

// State is the lifecycle of a Window, TabManager or WindowManager. Objects
// move Open -> Closing -> Closed exactly once; Closing covers the teardown
// itself so reentrant calls can tell a close is already in flight.
type State int

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// beginClose moves an open state to Closing. done reports that the caller
// must not run the teardown; err is set when the object was already closed.
func beginClose(s *State, what string) (done bool, err error) {
	switch *s {
	case StateClosing:
		return true, nil
	case StateClosed:
		return true, newError(ErrClosed, "%s already closed", what)
	}
	*s = StateClosing
	return false, nil
}

func checkOpen(s State, what string) error {
	if s != StateOpen {
		return newError(ErrClosed, "%s is %s", what, s)
	}
	return nil
}
