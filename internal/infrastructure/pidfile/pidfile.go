package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// AlreadyRunningError is returned when another live process holds the lock
type AlreadyRunningError struct {
	PID  int
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("scheduler is already running (PID %d, %s)", e.PID, e.Path)
}

// PIDFile enforces a single scheduler process per account. Two schedulers on
// the same account would fight over the same build queue.
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// ForAccount returns the lock file of one account inside dir
func ForAccount(dir, user string) *PIDFile {
	name := "pr0game-scheduler"
	if user != "" {
		name += "-" + user
	}
	return New(filepath.Join(dir, name+".pid"))
}

// Path returns the lock file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire attempts to acquire the PID file lock
// Returns an *AlreadyRunningError if another instance is already running
func (p *PIDFile) Acquire() error {
	if data, err := os.ReadFile(p.path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && pid != os.Getpid() && isProcessRunning(pid) {
			return &AlreadyRunningError{PID: pid, Path: p.path}
		}
		// stale or unreadable
		_ = os.Remove(p.path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read existing PID file: %w", err)
	}

	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &AlreadyRunningError{Path: p.path}
		}
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning sends signal 0, which only checks that the process exists
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: the process exists but belongs to someone else
	return errors.Is(err, syscall.EPERM)
}
