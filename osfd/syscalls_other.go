//go:build !unix

package osfd

import "github.com/go-git/go-fd"

func (Unix) Open(string, int, uint32) (int, error) {
	return -1, fd.ErrNotSupported
}

func (Unix) Fstat(int) (fd.Stat, error) {
	return fd.Stat{}, fd.ErrNotSupported
}

func (Unix) Close(int) error {
	return fd.ErrNotSupported
}

func (Unix) Pipe() (r, w int, err error) {
	return -1, -1, fd.ErrNotSupported
}

func (Unix) SetNonblock(int, bool) error {
	return fd.ErrNotSupported
}

func (Unix) Nonblock(int) (bool, error) {
	return false, fd.ErrNotSupported
}
