package osfd

import "github.com/go-git/go-fd"

// Unix is the fd.Syscalls implementation backed by golang.org/x/sys/unix.
// On platforms without it every call fails with fd.ErrNotSupported.
//
// Errors are returned as *os.SyscallError so they still match the errors in
// io/fs, for example fs.ErrNotExist.
type Unix struct{}

var _ fd.Syscalls = Unix{}
