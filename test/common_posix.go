//go:build unix

package test

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// Umask sets the process umask to mask and returns a func restoring the
// previous one. The umask is process wide, tests using it must not run in
// parallel.
func Umask(mask int) func() {
	old := unix.Umask(mask)
	return func() {
		unix.Umask(old)
	}
}

func currentUmask() fs.FileMode {
	old := unix.Umask(0)
	unix.Umask(old)
	return fs.FileMode(old)
}
