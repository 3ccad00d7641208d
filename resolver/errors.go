package resolver

import "fmt"

// FetchError is a transient network failure: a timeout, a connection
// error or a non-2xx status. It is retried up to the configured limit
// and never surfaces to callers on its own.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TerminalError is raised when every retry is exhausted and no stale
// durable value exists. It is the only error kind a caller sees under
// normal operation.
type TerminalError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }
