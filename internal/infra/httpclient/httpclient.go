package httpclient

import (
	"net/http"
	"time"
)

// New returns a client with a hard timeout; every outbound call in the
// pipeline runs on a client scoped to its own budget.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
