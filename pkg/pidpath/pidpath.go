// Package pidpath manages a PID file to denote when a process might already be
// running.
package pidpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// PidPath is the type for managing a PID file.
type PidPath struct {
	pidpath   string
	perm      fs.FileMode
	checkedAt time.Time
	pid       int
	owned     bool
}

// UnknownPID indicates no live process was found for the file.
const UnknownPID = -1

// recheckDelay limits how often the file is re-read by the query methods.
const recheckDelay = time.Second

// NewPidPath manages a process ID file at pathname.
func NewPidPath(pathname string, perm fs.FileMode) *PidPath {
	return &PidPath{pidpath: pathname, perm: perm, pid: UnknownPID}
}

// String provides the path and other PID info.
func (pp *PidPath) String() string {
	key := "other"
	if pp.IsOurs() {
		key = "ours"
	}

	return fmt.Sprintf("%s %s=%v", pp.pidpath, key, pp.Getpid())
}

// CheckAndSet fails if another live process holds the file, otherwise it
// records the current process ID in it.
func (pp *PidPath) CheckAndSet() error {
	err := pp.refresh()
	if err != nil {
		return err
	}

	if pp.pid != UnknownPID && pp.pid != os.Getpid() {
		return fmt.Errorf("another process is already running: %d", pp.pid)
	}

	pid := os.Getpid()
	err = os.WriteFile(pp.pidpath, []byte(strconv.Itoa(pid)), pp.perm)
	if err != nil {
		return fmt.Errorf("unable to write to %s: %w", pp.pidpath, err)
	}

	// only ours once the write has succeeded
	pp.pid = pid
	pp.owned = true
	pp.checkedAt = time.Now()
	return nil
}

// IsRunning reports whether the file names a live process (possibly this one).
func (pp *PidPath) IsRunning() bool {
	return pp.Getpid() != UnknownPID
}

// IsOurs reports whether this process wrote the file.
func (pp *PidPath) IsOurs() bool {
	return pp.owned && pp.Getpid() == os.Getpid()
}

// Getpid retrieves the live process ID from the file, or UnknownPID. Results
// are cached for a short time.
func (pp *PidPath) Getpid() int {
	if time.Since(pp.checkedAt) >= recheckDelay {
		pp.refresh()
	}

	return pp.pid
}

// Release removes the file if it is owned by the current process. It is safe to
// call when another process manages the file: nothing is removed.
func (pp *PidPath) Release() error {
	if !pp.IsOurs() {
		return nil
	}

	pp.owned = false
	pp.pid = UnknownPID
	pp.checkedAt = time.Time{}
	return os.Remove(pp.pidpath)
}

//--------------------------------------------------------------------------------
// private

func (pp *PidPath) refresh() error {
	pp.checkedAt = time.Now()
	pp.pid = UnknownPID

	content, err := os.ReadFile(pp.pidpath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to read %s: %w", pp.pidpath, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return fmt.Errorf("unable to parse contents of %s: %w", pp.pidpath, err)
	}

	if pid == os.Getpid() {
		pp.pid = pid
		return nil
	}

	err = syscall.Kill(pid, 0)
	switch {
	case err == nil, errors.Is(err, syscall.EPERM):
		// EPERM: alive but owned by another user
		pp.pid = pid
	case errors.Is(err, syscall.ESRCH):
		// stale file left by a process that is gone
	default:
		// can't determine, so assume it is still running
		pp.pid = pid
		return fmt.Errorf("unable to check if process %d is still running: %w", pid, err)
	}

	return nil
}
