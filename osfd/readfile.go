package osfd

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-fd"
)

// readFile is the part of *os.File used by ReadFile.
type readFile interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

func openFile(path string) (readFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// ReadFile returns the contents of path. Unlike Open it goes through the os
// package and applies no directory or permission policy.
//
// Files longer than the configured maximum are refused with fd.ErrTooLarge.
// A file that shrinks while being read fails with io.ErrUnexpectedEOF.
func (o *OS) ReadFile(path string) ([]byte, error) {
	f, err := o.openFile(path)
	if err != nil {
		return nil, readError(path, err)
	}
	defer fd.CloseQuietly(f)

	fi, err := f.Stat()
	if err != nil {
		return nil, readError(path, err)
	}

	size := fi.Size()
	if size < 0 || size > o.maxReadSize {
		return nil, readError(path, fd.ErrTooLarge)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return nil, readError(path, err)
	}

	return buf, nil
}

// readError wraps err, naming path only when err does not already.
func readError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		path = ""
	}

	return &fd.IOError{Op: "read", Path: path, Err: err}
}
