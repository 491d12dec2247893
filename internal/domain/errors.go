package domain

import "errors"

var (
	// ErrProcessGone means the process exited before the operation reached it.
	ErrProcessGone = errors.New("process no longer exists")

	// ErrAccessDenied means the OS refused the operation (run as administrator/root?).
	ErrAccessDenied = errors.New("access denied")
)
