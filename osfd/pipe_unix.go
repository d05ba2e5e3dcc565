//go:build unix && !linux

package osfd

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func (Unix) Pipe() (r, w int, err error) {
	var p [2]int

	// Hold the fork lock so no child inherits the pair before it is marked
	// close-on-exec.
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()

	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, os.NewSyscallError("pipe", err)
	}

	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])

	return p[0], p[1], nil
}
