package apexview

import (
	"errors"

	"github.com/apexview/apexview-go/resolver"
)

// ErrUnknownRefreshKey is returned by Refresh for a logical key it
// does not recognize. It is a configuration error and is never
// retried.
var ErrUnknownRefreshKey = errors.New("unknown refresh key")

// IsTerminal reports whether err is a terminal fetch failure: every
// retry exhausted and no stale durable value available. This is the
// only error kind callers see from the network path.
func IsTerminal(err error) bool {
	var te *resolver.TerminalError
	return errors.As(err, &te)
}
