// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"fmt"
	"time"
)

// ProcessHandle is a live OS process observed during a scan.
// PIDs are assigned by the OS and may be reused over time.
type ProcessHandle struct {
	PID  int
	Name string
}

// Window is the hour range during which the target process is disallowed.
// StartHour > EndHour means the window wraps past midnight.
type Window struct {
	StartHour int
	EndHour   int
}

// DaySnapshot is a read-only copy of the per-day enforcement state.
type DaySnapshot struct {
	Day         time.Time // Local midnight of the tracked day (zero before first tick)
	Attempts    int
	HandledPIDs []int // Sorted ascending
}

// String renders the snapshot for status output, e.g. "2025-03-14 attempts=2 handled=[4 7]".
func (s DaySnapshot) String() string {
	day := "-"
	if !s.Day.IsZero() {
		day = s.Day.Format(time.DateOnly)
	}
	return fmt.Sprintf("%s attempts=%d handled=%v", day, s.Attempts, s.HandledPIDs)
}

// CycleResult captures what happened during a single scan-and-enforce cycle.
type CycleResult struct {
	ExecutedAt   time.Time
	DayReset     bool           // Calendar date changed before this cycle
	Restricted   bool           // Window was active; false means no scan ran
	Scanned      int            // Processes enumerated
	Target       *ProcessHandle // Instance acted on this cycle, nil if none
	TerminateErr error          // Termination failure (attempt still counted)
	Attempts     int            // Attempt counter after this cycle
	Notified     bool           // Notifier returned without error
	DurationMs   int64
}

// Acted reports whether an enforcement attempt happened in this cycle.
func (r *CycleResult) Acted() bool {
	return r.Target != nil
}
