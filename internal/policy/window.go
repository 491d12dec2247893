package policy

import (
	"fmt"
	"time"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
)

// Window evaluates a domain.Window against wall-clock time.
type Window domain.Window

// NewWindow creates a window restricted from start (inclusive) to end (exclusive).
func NewWindow(start, end int) Window {
	return Window{StartHour: start, EndHour: end}
}

// Validate checks both bounds are valid hours.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("start hour %d out of range [0,23]", w.StartHour)
	}
	if w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("end hour %d out of range [0,23]", w.EndHour)
	}
	return nil
}

// IsRestricted reports whether now falls inside the window.
// Only the hour is considered. The OR makes start > end wrap past midnight:
// start=21, end=1 restricts 21, 22, 23 and 0.
func (w Window) IsRestricted(now time.Time) bool {
	return w.restrictsHour(now.Hour())
}

func (w Window) restrictsHour(h int) bool {
	return h >= w.StartHour || h < w.EndHour
}

// RestrictedHours returns every restricted hour in [0,23], ascending.
func (w Window) RestrictedHours() []int {
	hours := make([]int, 0, 24)
	for h := 0; h < 24; h++ {
		if w.restrictsHour(h) {
			hours = append(hours, h)
		}
	}
	return hours
}

// String renders the window as "21:00-01:00".
func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour)
}
