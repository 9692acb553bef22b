package llm

import "net/http"

// classifyStatus maps an HTTP status returned by a provider SDK to the
// package error taxonomy. A zero status means the SDK gave no status.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
