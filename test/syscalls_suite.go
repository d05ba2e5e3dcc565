//go:build unix

package test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-fd"
	"golang.org/x/sys/unix"
	. "gopkg.in/check.v1"
)

// SyscallsSuite is a convenient test suite to validate any implementation of
// fd.Syscalls running against the real OS.
type SyscallsSuite struct {
	Sys fd.Syscalls
	dir string
}

func NewSyscallsSuite(s fd.Syscalls) SyscallsSuite {
	return SyscallsSuite{Sys: s}
}

func (s *SyscallsSuite) SetUpTest(c *C) {
	s.dir = c.MkDir()
}

func (s *SyscallsSuite) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *SyscallsSuite) TestOpenRegular(c *C) {
	err := os.WriteFile(s.path("foo"), []byte("hello"), 0o644)
	c.Assert(err, IsNil)

	n, err := s.Sys.Open(s.path("foo"), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	c.Assert(err, IsNil)
	c.Assert(n >= 0, Equals, true)

	st, err := s.Sys.Fstat(n)
	c.Assert(err, IsNil)
	c.Assert(st.IsRegular(), Equals, true)
	c.Assert(st.Size, Equals, int64(5))
	c.Assert(st.Mode.Perm(), Equals, fs.FileMode(0o644)&^currentUmask())

	c.Assert(s.Sys.Close(n), IsNil)
}

func (s *SyscallsSuite) TestOpenCreate(c *C) {
	n, err := s.Sys.Open(s.path("new"), unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL, 0o600)
	c.Assert(err, IsNil)
	c.Assert(s.Sys.Close(n), IsNil)

	_, err = s.Sys.Open(s.path("new"), unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL, 0o600)
	c.Assert(errors.Is(err, fs.ErrExist), Equals, true)
}

func (s *SyscallsSuite) TestOpenMissing(c *C) {
	n, err := s.Sys.Open(s.path("missing"), unix.O_RDONLY, 0)
	c.Assert(err, NotNil)
	c.Assert(n, Equals, -1)
	c.Assert(errors.Is(err, fs.ErrNotExist), Equals, true)
	c.Assert(errors.Is(err, syscall.ENOENT), Equals, true)
}

func (s *SyscallsSuite) TestFstatDirectory(c *C) {
	n, err := s.Sys.Open(s.dir, unix.O_RDONLY, 0)
	c.Assert(err, IsNil)
	defer s.Sys.Close(n)

	st, err := s.Sys.Fstat(n)
	c.Assert(err, IsNil)
	c.Assert(st.IsDir(), Equals, true)
	c.Assert(st.IsRegular(), Equals, false)
}

func (s *SyscallsSuite) TestOpenDirectoryForWriting(c *C) {
	_, err := s.Sys.Open(s.dir, unix.O_WRONLY, 0)
	c.Assert(errors.Is(err, syscall.EISDIR), Equals, true)
}

func (s *SyscallsSuite) TestCloseTwice(c *C) {
	n, err := s.Sys.Open(s.dir, unix.O_RDONLY, 0)
	c.Assert(err, IsNil)

	c.Assert(s.Sys.Close(n), IsNil)
	err = s.Sys.Close(n)
	c.Assert(errors.Is(err, syscall.EBADF), Equals, true)
}

func (s *SyscallsSuite) TestFstatClosed(c *C) {
	_, err := s.Sys.Fstat(-1)
	c.Assert(errors.Is(err, syscall.EBADF), Equals, true)
}

func (s *SyscallsSuite) TestPipe(c *C) {
	r, w, err := s.Sys.Pipe()
	c.Assert(err, IsNil)
	defer s.Sys.Close(r)
	defer s.Sys.Close(w)

	c.Assert(r, Not(Equals), w)

	n, err := unix.Write(w, []byte("ping"))
	c.Assert(err, IsNil)
	c.Assert(n, Equals, 4)

	buf := make([]byte, 16)
	n, err = unix.Read(r, buf)
	c.Assert(err, IsNil)
	c.Assert(string(buf[:n]), Equals, "ping")

	st, err := s.Sys.Fstat(r)
	c.Assert(err, IsNil)
	c.Assert(st.Mode&fs.ModeNamedPipe, Equals, fs.ModeNamedPipe)
}

func (s *SyscallsSuite) TestPipeCloseOnExec(c *C) {
	r, w, err := s.Sys.Pipe()
	c.Assert(err, IsNil)
	defer s.Sys.Close(r)
	defer s.Sys.Close(w)

	for _, n := range []int{r, w} {
		flags, err := unix.FcntlInt(uintptr(n), unix.F_GETFD, 0)
		c.Assert(err, IsNil)
		c.Assert(flags&unix.FD_CLOEXEC, Equals, unix.FD_CLOEXEC)
	}
}

func (s *SyscallsSuite) TestNonblock(c *C) {
	r, w, err := s.Sys.Pipe()
	c.Assert(err, IsNil)
	defer s.Sys.Close(r)
	defer s.Sys.Close(w)

	nb, err := s.Sys.Nonblock(r)
	c.Assert(err, IsNil)
	c.Assert(nb, Equals, false)

	c.Assert(s.Sys.SetNonblock(r, true), IsNil)
	nb, err = s.Sys.Nonblock(r)
	c.Assert(err, IsNil)
	c.Assert(nb, Equals, true)

	_, err = unix.Read(r, make([]byte, 1))
	c.Assert(errors.Is(err, syscall.EAGAIN), Equals, true)

	c.Assert(s.Sys.SetNonblock(r, false), IsNil)
	nb, err = s.Sys.Nonblock(r)
	c.Assert(err, IsNil)
	c.Assert(nb, Equals, false)
}

func (s *SyscallsSuite) TestNonblockClosed(c *C) {
	err := s.Sys.SetNonblock(-1, true)
	c.Assert(errors.Is(err, syscall.EBADF), Equals, true)

	_, err = s.Sys.Nonblock(-1)
	c.Assert(errors.Is(err, syscall.EBADF), Equals, true)
}
