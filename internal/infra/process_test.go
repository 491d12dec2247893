package infra

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/curfew/internal/domain"
)

// TestProcessTable_ListIncludesSelf verifies enumeration sees the test binary
func TestProcessTable_ListIncludesSelf(t *testing.T) {
	pt := NewProcessTable()

	handles, err := pt.List()
	require.NoError(t, err)
	require.NotEmpty(t, handles)

	self := os.Getpid()
	found := false
	for _, h := range handles {
		if h.PID == self {
			found = true
			assert.NotEmpty(t, h.Name)
		}
	}
	assert.True(t, found, "expected own PID %d in process list", self)
}

// TestProcessTable_TerminateMissingPID verifies a vanished process maps to ErrProcessGone
func TestProcessTable_TerminateMissingPID(t *testing.T) {
	pt := NewProcessTable()

	err := pt.Terminate(1 << 30)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProcessGone)
}

func TestClassifyProcessErr(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"not running", process.ErrorProcessNotRunning, domain.ErrProcessGone},
		{"process done", os.ErrProcessDone, domain.ErrProcessGone},
		{"esrch", fmt.Errorf("kill: %w", syscall.ESRCH), domain.ErrProcessGone},
		{"eperm", syscall.EPERM, domain.ErrAccessDenied},
		{"not permitted", process.ErrorNotPermitted, domain.ErrAccessDenied},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyProcessErr(tt.in)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.in, "cause should be preserved")
		})
	}

	assert.NoError(t, classifyProcessErr(nil))
}
