// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
)

// FakeTarget is a throwaway process with a unique executable name,
// so enforcement tests never match anything else on the machine.
type FakeTarget struct {
	Dir  string
	name string
	cmd  *exec.Cmd
	done chan struct{}
}

// NewFakeTarget copies the system sleep binary into dir under a unique name.
// Names stay under 15 characters so the kernel does not truncate them.
func NewFakeTarget(dir string) (*FakeTarget, error) {
	src, err := exec.LookPath("sleep")
	if err != nil {
		return nil, fmt.Errorf("sleep not found: %w", err)
	}

	name := fmt.Sprintf("cfw%06d", rand.Intn(1000000))
	if err := copyExecutable(src, filepath.Join(dir, name)); err != nil {
		return nil, err
	}

	return &FakeTarget{Dir: dir, name: name}, nil
}

// Name is the process name enforcement should match.
func (f *FakeTarget) Name() string {
	return f.name
}

// Start launches the process; it sleeps for five minutes unless stopped.
func (f *FakeTarget) Start() error {
	f.cmd = exec.Command(filepath.Join(f.Dir, f.name), "300")
	if err := f.cmd.Start(); err != nil {
		return err
	}

	f.done = make(chan struct{})
	go func() {
		_ = f.cmd.Wait()
		close(f.done)
	}()
	return nil
}

// PID returns the running process ID.
func (f *FakeTarget) PID() int {
	if f.cmd == nil || f.cmd.Process == nil {
		return 0
	}
	return f.cmd.Process.Pid
}

// Exited reports whether the process has exited and been reaped.
func (f *FakeTarget) Exited() bool {
	if f.done == nil {
		return false
	}
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cleanup kills the process if it is still running.
func (f *FakeTarget) Cleanup() {
	if f.cmd != nil && f.cmd.Process != nil && !f.Exited() {
		_ = f.cmd.Process.Kill()
		<-f.done
	}
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
