package infra

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
)

// DialogFunc shows a modal message dialog and blocks until it is dismissed.
// zenity.Info satisfies it.
type DialogFunc func(text string, options ...zenity.Option) error

// DialogNotifier implements domain.Notifier with the platform's native modal dialog.
type DialogNotifier struct {
	showDialog DialogFunc
	logger     *zap.Logger
}

// NewDialogNotifier creates a notifier backed by the native dialog.
func NewDialogNotifier(logger *zap.Logger) *DialogNotifier {
	return NewDialogNotifierWithDeps(zenity.Info, logger)
}

// NewDialogNotifierWithDeps creates a notifier with injectable dependencies (for testing)
func NewDialogNotifierWithDeps(showDialog DialogFunc, logger *zap.Logger) *DialogNotifier {
	return &DialogNotifier{
		showDialog: showDialog,
		logger:     logger,
	}
}

// Notify shows the alert and returns once it is dismissed.
// Closing the window instead of pressing OK still counts as dismissed.
func (n *DialogNotifier) Notify(title, body string) error {
	err := n.showDialog(body, zenity.Title(title), zenity.WarningIcon)
	if errors.Is(err, zenity.ErrCanceled) {
		n.logDebug("alert closed without confirming")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to show alert: %w", err)
	}
	return nil
}

func (n *DialogNotifier) logDebug(msg string, fields ...zap.Field) {
	if n.logger != nil {
		n.logger.Debug(msg, fields...)
	}
}

// LogNotifier implements domain.Notifier by writing the alert to the log.
// Used on headless hosts where no dialog can be shown.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert and returns immediately.
func (n *LogNotifier) Notify(title, body string) error {
	n.logger.Warn(title, zap.String("alert", body))
	return nil
}

// Ensure both notifiers implement domain.Notifier.
var _ domain.Notifier = (*DialogNotifier)(nil)
var _ domain.Notifier = (*LogNotifier)(nil)
