package catalog

import "fmt"

// APIError reports a request the destination rejected. It is terminal for the
// entity being resolved but never for the run: callers catch it, tell the
// operator, and move on.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("catalog rejected request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("catalog rejected request (status %d): %s", e.StatusCode, e.Detail)
}
