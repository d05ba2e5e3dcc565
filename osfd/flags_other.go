//go:build !unix

package osfd

import "os"

// Flags accepted by Open. Only the access modes and the creation flags have a
// meaning on this platform.
const (
	O_RDONLY   = os.O_RDONLY
	O_WRONLY   = os.O_WRONLY
	O_RDWR     = os.O_RDWR
	O_ACCMODE  = os.O_RDONLY | os.O_WRONLY | os.O_RDWR
	O_CREAT    = os.O_CREATE
	O_TRUNC    = os.O_TRUNC
	O_APPEND   = os.O_APPEND
	O_EXCL     = os.O_EXCL
	O_CLOEXEC  = 0
	O_NONBLOCK = 0
)
