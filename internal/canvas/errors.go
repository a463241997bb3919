package canvas

import "fmt"

// ValidationError rejects an operation before any side effect happens. The
// canvas is untouched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation that referenced an element id not present
// in the canvas.
type NotFoundError struct {
	ElementID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element %s not found", e.ElementID)
}

// ResolutionError reports an internal component source that could not be
// resolved to a runnable component.
type ResolutionError struct {
	Source string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Source, e.Reason)
}

// LoadError reports a window that failed to appear or load. Any partially
// created window has been torn down by the time one is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
