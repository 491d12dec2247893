// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
	"github.com/eliteGoblin/focusd/curfew/internal/policy"
)

// dayState is the per-day enforcement memory. attempts and handled always
// describe the same day and are only reset together.
type dayState struct {
	day      time.Time
	attempts int
	handled  map[int]struct{}
}

// EnforcerImpl implements domain.Enforcer.
// Not safe for concurrent use; the watcher loop is its only caller.
type EnforcerImpl struct {
	processTable domain.ProcessTable
	notifier     domain.Notifier
	policy       policy.Policy
	logger       *zap.Logger
	state        dayState
}

// NewEnforcer creates a new enforcer with empty day state.
func NewEnforcer(
	pt domain.ProcessTable,
	notifier domain.Notifier,
	p policy.Policy,
	logger *zap.Logger,
) *EnforcerImpl {
	return &EnforcerImpl{
		processTable: pt,
		notifier:     notifier,
		policy:       p,
		logger:       logger,
		state:        dayState{handled: make(map[int]struct{})},
	}
}

// Tick runs one scan-and-enforce cycle at now.
func (e *EnforcerImpl) Tick(ctx context.Context, now time.Time) (*domain.CycleResult, error) {
	start := time.Now()

	result := &domain.CycleResult{
		ExecutedAt: now,
		DayReset:   e.rollover(now),
	}
	defer func() {
		result.Attempts = e.state.attempts
		result.DurationMs = time.Since(start).Milliseconds()
	}()

	if !e.policy.Window.IsRestricted(now) {
		return result, nil
	}
	result.Restricted = true

	if err := ctx.Err(); err != nil {
		return result, err
	}

	procs, err := e.processTable.List()
	if err != nil {
		return result, err
	}
	result.Scanned = len(procs)

	present := make(map[int]struct{}, len(procs))
	for _, p := range procs {
		present[p.PID] = struct{}{}

		// Only the first new match per cycle is acted on.
		if result.Target != nil || !e.policy.Matches(p.Name) {
			continue
		}
		if _, done := e.state.handled[p.PID]; done {
			continue
		}

		target := p
		result.Target = &target
		result.TerminateErr, result.Notified = e.enforce(target)
	}

	// Forget PIDs that have exited so the OS can reuse them.
	for pid := range e.state.handled {
		if _, ok := present[pid]; !ok {
			delete(e.state.handled, pid)
		}
	}

	return result, nil
}

// enforce terminates one process, counts the attempt and notifies the user.
// The attempt counts whether or not termination succeeded.
func (e *EnforcerImpl) enforce(p domain.ProcessHandle) (terminateErr error, notified bool) {
	e.logger.Info("target running inside restricted window, terminating",
		zap.String("target", e.policy.Target),
		zap.Int("pid", p.PID),
		zap.String("window", e.policy.Window.String()))

	terminateErr = e.processTable.Terminate(p.PID)
	switch {
	case terminateErr == nil:
		e.logger.Info("termination requested", zap.Int("pid", p.PID))
	case errors.Is(terminateErr, domain.ErrProcessGone):
		e.logger.Warn("process exited before termination", zap.Int("pid", p.PID))
	case errors.Is(terminateErr, domain.ErrAccessDenied):
		e.logger.Warn("cannot terminate (access denied, run as administrator/root)",
			zap.Int("pid", p.PID),
			zap.Error(terminateErr))
	default:
		e.logger.Warn("failed to terminate process",
			zap.Int("pid", p.PID),
			zap.Error(terminateErr))
	}

	e.state.handled[p.PID] = struct{}{}
	e.state.attempts++

	e.logger.Info("showing alert", zap.Int("attempts_today", e.state.attempts))
	if err := e.notifier.Notify(policy.AlertTitle, e.policy.AlertBody(e.state.attempts)); err != nil {
		e.logger.Warn("failed to show alert", zap.Error(err))
		return terminateErr, false
	}
	return terminateErr, true
}

// rollover resets the day state when now falls on a new local calendar date.
// Returns true if a previously tracked day was replaced.
func (e *EnforcerImpl) rollover(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	if e.state.day.Equal(today) {
		return false
	}

	first := e.state.day.IsZero()
	if first {
		e.logger.Info("initialized daily check date", zap.String("date", today.Format(time.DateOnly)))
	} else {
		e.logger.Info("date changed, resetting attempt count",
			zap.String("date", today.Format(time.DateOnly)),
			zap.Int("previous_attempts", e.state.attempts))
	}

	e.state = dayState{day: today, handled: make(map[int]struct{})}
	return !first
}

// Snapshot returns a copy of the current day state.
func (e *EnforcerImpl) Snapshot() domain.DaySnapshot {
	pids := make([]int, 0, len(e.state.handled))
	for pid := range e.state.handled {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	return domain.DaySnapshot{
		Day:         e.state.day,
		Attempts:    e.state.attempts,
		HandledPIDs: pids,
	}
}

// Ensure EnforcerImpl implements domain.Enforcer.
var _ domain.Enforcer = (*EnforcerImpl)(nil)
