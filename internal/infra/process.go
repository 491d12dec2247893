// Package infra implements infrastructure concerns (process table, notifier).
package infra

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
)

// ProcessTableImpl implements domain.ProcessTable using gopsutil.
type ProcessTableImpl struct{}

// NewProcessTable creates a new process table.
func NewProcessTable() domain.ProcessTable {
	return &ProcessTableImpl{}
}

// List returns every process whose name could be read.
func (pt *ProcessTableImpl) List() ([]domain.ProcessHandle, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	handles := make([]domain.ProcessHandle, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited, or we can't read it
		}
		handles = append(handles, domain.ProcessHandle{PID: int(p.Pid), Name: name})
	}

	return handles, nil
}

// Terminate asks a process to exit (SIGTERM on Unix, TerminateProcess on Windows).
func (pt *ProcessTableImpl) Terminate(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return classifyProcessErr(err)
	}
	return classifyProcessErr(p.Terminate())
}

// classifyProcessErr maps OS errors onto the domain sentinels, keeping the cause.
func classifyProcessErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, syscall.ESRCH):
		return fmt.Errorf("%w: %w", domain.ErrProcessGone, err)
	case errors.Is(err, os.ErrPermission),
		errors.Is(err, process.ErrorNotPermitted):
		return fmt.Errorf("%w: %w", domain.ErrAccessDenied, err)
	default:
		return err
	}
}

// Ensure ProcessTableImpl implements domain.ProcessTable.
var _ domain.ProcessTable = (*ProcessTableImpl)(nil)
