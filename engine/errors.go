package engine

import "fmt"

// EngineError is an error raised by the shell core. Errors with the same
// Name match under errors.Is, so callers can test against the sentinels
// below.
type EngineError struct {
	Name    string
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is matches any EngineError with the same Name.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	return ok && t.Name == e.Name
}

var (
	// ErrNotFound is returned when a tab is not a member of the manager.
	ErrNotFound = &EngineError{Name: "NotFoundError"}
	// ErrNotManaged is returned when a window is not a member of the manager.
	ErrNotManaged = &EngineError{Name: "NotManagedError"}
	// ErrClosed is returned by operations on a closed window or manager.
	ErrClosed = &EngineError{Name: "InvalidStateError"}
	// ErrInvalidIndex is returned for insert positions outside the tab strip.
	ErrInvalidIndex = &EngineError{Name: "IndexSizeError"}
	// ErrInvalidOptions is returned for contradictory options.
	ErrInvalidOptions = &EngineError{Name: "InvalidOptionsError"}
)

func newError(base *EngineError, format string, args ...any) *EngineError {
	return &EngineError{Name: base.Name, Message: fmt.Sprintf(format, args...)}
}
