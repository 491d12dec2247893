// Package daemon implements the polling loop that drives enforcement.
package daemon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
)

// RecoveryFactor multiplies the interval after a failed cycle.
const RecoveryFactor = 60

// WatcherConfig holds watcher loop configuration.
type WatcherConfig struct {
	Interval         time.Duration // Sleep between cycles
	RecoveryInterval time.Duration // Sleep after a failed cycle
}

// WatcherConfigFor derives a config from a poll interval.
func WatcherConfigFor(interval time.Duration) WatcherConfig {
	return WatcherConfig{
		Interval:         interval,
		RecoveryInterval: RecoveryFactor * interval,
	}
}

// Watcher is the main enforcement loop.
// It runs one cycle, sleeps, and repeats until the context is cancelled.
type Watcher struct {
	config   WatcherConfig
	enforcer domain.Enforcer
	clock    domain.Clock
	logger   *zap.Logger
	wait     func(ctx context.Context, d time.Duration) bool
}

// NewWatcher creates a new watcher loop.
func NewWatcher(
	config WatcherConfig,
	enforcer domain.Enforcer,
	clock domain.Clock,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		config:   config,
		enforcer: enforcer,
		clock:    clock,
		logger:   logger,
		wait:     sleep,
	}
}

// Run starts the watcher loop.
// This blocks until ctx is cancelled, which is a clean stop and returns nil.
// Cancellation is observed between cycles, not inside one.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("recovery_interval", w.config.RecoveryInterval))

	for {
		if ctx.Err() != nil {
			break
		}

		delay := w.config.Interval
		if err := w.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			w.logger.Error("unexpected error in enforcement cycle", zap.Error(err))
			w.logger.Info("restarting check after cooldown", zap.Duration("cooldown", w.config.RecoveryInterval))
			delay = w.config.RecoveryInterval
		}

		if !w.wait(ctx, delay) {
			break
		}
	}

	w.logger.Info("watcher stopped by user")
	return nil
}

// runCycle executes a single tick, turning a panic into an error.
func (w *Watcher) runCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during cycle: %v", r)
		}
	}()

	result, err := w.enforcer.Tick(ctx, w.clock.Now())
	if err != nil {
		return err
	}

	w.logger.Debug("cycle completed",
		zap.Bool("restricted", result.Restricted),
		zap.Int("scanned", result.Scanned),
		zap.Int64("duration_ms", result.DurationMs))

	if result.Acted() {
		w.logger.Info("enforcement completed",
			zap.Int("pid", result.Target.PID),
			zap.Int("attempts_today", result.Attempts),
			zap.Bool("notified", result.Notified))
	}
	return nil
}

// sleep waits for d or until ctx is cancelled. Returns false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
