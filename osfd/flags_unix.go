//go:build unix

package osfd

import "golang.org/x/sys/unix"

// Flags accepted by Open.
const (
	O_RDONLY   = unix.O_RDONLY
	O_WRONLY   = unix.O_WRONLY
	O_RDWR     = unix.O_RDWR
	O_ACCMODE  = unix.O_ACCMODE
	O_CREAT    = unix.O_CREAT
	O_TRUNC    = unix.O_TRUNC
	O_APPEND   = unix.O_APPEND
	O_EXCL     = unix.O_EXCL
	O_CLOEXEC  = unix.O_CLOEXEC
	O_NONBLOCK = unix.O_NONBLOCK
)
