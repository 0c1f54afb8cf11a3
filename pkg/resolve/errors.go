package resolve

import (
	"errors"
	"fmt"
)

// Sentinel errors for host states the caller is expected to branch on.
var (
	// ErrHostUnavailable means the scripting gateway did not answer or the
	// host application is not running.
	ErrHostUnavailable = errors.New("resolve: host is not running or not reachable")

	// ErrNoProject means the host is running but no project is open.
	ErrNoProject = errors.New("resolve: no project is currently open")

	// ErrNoTimeline means the current project has no open timeline.
	ErrNoTimeline = errors.New("resolve: no timeline is currently open")
)

// CallError is a failure reported by the host for a single remote call.
type CallError struct {
	Target string
	Method string
	Msg    string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("resolve: %s.%s: %s", e.Target, e.Method, e.Msg)
}
