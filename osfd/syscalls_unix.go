//go:build unix

package osfd

import (
	"io/fs"
	"os"

	"github.com/go-git/go-fd"
	"golang.org/x/sys/unix"
)

func (Unix) Open(path string, flags int, mode uint32) (int, error) {
	n, err := unix.Open(path, flags, mode)
	if err != nil {
		return -1, os.NewSyscallError("open", err)
	}

	return n, nil
}

func (Unix) Fstat(n int) (fd.Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(n, &st); err != nil {
		return fd.Stat{}, os.NewSyscallError("fstat", err)
	}

	return fd.Stat{Mode: fileMode(uint32(st.Mode)), Size: st.Size}, nil
}

func (Unix) Close(n int) error {
	return os.NewSyscallError("close", unix.Close(n))
}

func (Unix) SetNonblock(n int, nonblocking bool) error {
	return os.NewSyscallError("fcntl", unix.SetNonblock(n, nonblocking))
}

func (Unix) Nonblock(n int) (bool, error) {
	flags, err := unix.FcntlInt(uintptr(n), unix.F_GETFL, 0)
	if err != nil {
		return false, os.NewSyscallError("fcntl", err)
	}

	return flags&unix.O_NONBLOCK != 0, nil
}

// fileMode converts a st_mode into an fs.FileMode.
func fileMode(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0o777)
	switch m & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	}

	if m&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if m&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if m&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}

	return mode
}
