package source

import "fmt"

// ServiceError reports a failure the upstream signalled in its response
// envelope or at the HTTP layer.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("source service error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("source service error (status %d): %s", e.StatusCode, e.Message)
}
