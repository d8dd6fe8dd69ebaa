//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillTree sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU children with it. A group that already
// exited is not an error.
func KillTree(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
