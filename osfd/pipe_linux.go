package osfd

import (
	"os"

	"golang.org/x/sys/unix"
)

func (Unix) Pipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, os.NewSyscallError("pipe2", err)
	}

	return p[0], p[1], nil
}
