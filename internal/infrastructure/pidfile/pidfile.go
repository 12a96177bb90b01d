package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned when the PID file names a live process
var ErrAlreadyRunning = errors.New("server is already running")

// PIDFile keeps a single catalog server per PID file path
type PIDFile struct {
	path string
}

// New creates a PIDFile for path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire records the current process in the PID file.
// Stale or unreadable files left by a dead process are replaced.
func (p *PIDFile) Acquire() error {
	data, err := os.ReadFile(p.path)
	switch {
	case err == nil:
		if pid, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil && pid != os.Getpid() && isProcessRunning(pid) {
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read existing PID file: %w", err)
	}

	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	// EPERM means the process exists under another user
	return err == nil || errors.Is(err, syscall.EPERM)
}
