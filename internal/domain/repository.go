package domain

import (
	"context"
	"time"
)

// ProcessTable handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessTable interface {
	// List enumerates live processes at call time (no caching).
	// Processes that vanish or deny access mid-enumeration are skipped.
	List() ([]ProcessHandle, error)

	// Terminate asks the OS to stop a process (SIGTERM, not SIGKILL).
	// Returns ErrProcessGone or ErrAccessDenied where it can tell.
	Terminate(pid int) error
}

// Notifier surfaces an alert to the user.
type Notifier interface {
	// Notify shows a dismissable alert and blocks until the user dismisses it.
	Notify(title, body string) error
}

// Clock supplies the current local time.
type Clock interface {
	Now() time.Time
}

// Enforcer runs one scan-and-enforce cycle.
type Enforcer interface {
	// Tick evaluates the window at now and acts on at most one process.
	Tick(ctx context.Context, now time.Time) (*CycleResult, error)

	// Snapshot returns the current per-day state.
	Snapshot() DaySnapshot
}

// SystemClock implements Clock with time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
