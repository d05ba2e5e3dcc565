// Package fd provides an opaque handle over raw POSIX file descriptors along
// with the interfaces and errors shared by its implementations.
package fd

import (
	"errors"
	"io/fs"
)

var (
	ErrNotFound     = errors.New("file not found")
	ErrIO           = errors.New("i/o error")
	ErrTooLarge     = errors.New("file too large")
	ErrNotSupported = errors.New("feature not supported")
)

// Syscalls abstract the OS primitives the descriptor utilities are built on.
// Descriptors cross this boundary as raw integers.
//
// Each method maps to a single system call. Implementations must not retry
// on EINTR and must not wrap the call in any buffering.
type Syscalls interface {
	Open(path string, flags int, mode uint32) (int, error)
	Fstat(fd int) (Stat, error)
	Close(fd int) error
	// Pipe returns the read end first and the write end second.
	Pipe() (r, w int, err error)
	SetNonblock(fd int, nonblocking bool) error
	Nonblock(fd int) (bool, error)
}

// Stat is the subset of fstat(2) the utilities need.
type Stat struct {
	Mode fs.FileMode
	Size int64
}

func (s Stat) IsDir() bool {
	return s.Mode.IsDir()
}

func (s Stat) IsRegular() bool {
	return s.Mode.IsRegular()
}

// NotFoundError is returned when a path cannot be opened as a file, whatever
// the underlying reason was. Err holds the original error.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError records a failed operation on a descriptor or file. Path is empty
// when the operation was not tied to a name.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}

	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrIO) hold for every IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
