// Package policy defines what gets blocked and when.
// A Policy pairs one target process name with the hour window it is barred in.
package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTarget is the process blocked when nothing else is configured.
	DefaultTarget = "RiotClientServices.exe"

	// DefaultStartHour and DefaultEndHour give a 21:00-01:00 window.
	DefaultStartHour = 21
	DefaultEndHour   = 1

	// DefaultInterval is how often the process table is polled.
	DefaultInterval = 3 * time.Second

	// DefaultMessage opens every alert.
	DefaultMessage = "Get to work!"

	// AlertTitle is the title of every alert.
	AlertTitle = "Access Denied"
)

// Policy is the enforcement rule for a single target process.
type Policy struct {
	Target   string
	Window   Window
	Interval time.Duration
	Message  string
}

// Default returns the built-in policy.
func Default() Policy {
	return Policy{
		Target:   DefaultTarget,
		Window:   NewWindow(DefaultStartHour, DefaultEndHour),
		Interval: DefaultInterval,
		Message:  DefaultMessage,
	}
}

// Validate checks the policy is enforceable.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Target) == "" {
		return errors.New("target process name is empty")
	}
	if err := p.Window.Validate(); err != nil {
		return err
	}
	if p.Interval < time.Second || p.Interval%time.Second != 0 {
		return fmt.Errorf("interval %s must be a positive whole number of seconds", p.Interval)
	}
	return nil
}

// Matches reports whether a process name is the target.
// Comparison is exact but case-insensitive.
func (p Policy) Matches(name string) bool {
	return strings.EqualFold(name, p.Target)
}

// AlertBody builds the alert text shown after an enforcement attempt.
func (p Policy) AlertBody(attempts int) string {
	msg := p.Message
	if msg == "" {
		msg = DefaultMessage
	}
	return fmt.Sprintf("%s\n\n%s is blocked between %02d:00 and %02d:00.\nAttempts today: %d",
		msg, p.Target, p.Window.StartHour, p.Window.EndHour, attempts)
}
