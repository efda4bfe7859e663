// ABOUTME: Typed errors for the vision and text backend boundaries
// ABOUTME: Callers branch on kind; upstream payloads are preserved for diagnostics
package llm

import "fmt"

// VisionError reports a failed vision backend call: transport failure,
// non-success status, or an unusable response shape. It carries the upstream
// message so the caller can embed it in a placeholder description.
type VisionError struct {
	Detail string
	Err    error
}

func (e *VisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vision backend: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("vision backend: %s", e.Detail)
}

func (e *VisionError) Unwrap() error { return e.Err }

// ResponderError reports a failed text backend call. The relay surfaces it
// inside the reply body rather than failing the request, so the upstream
// payload must survive intact.
type ResponderError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *ResponderError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("text backend: %s: %v", e.Detail, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("text backend: status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("text backend: %s", e.Detail)
	}
}

func (e *ResponderError) Unwrap() error { return e.Err }
