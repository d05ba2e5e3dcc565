package osfd

import (
	"io/fs"

	"github.com/go-git/go-fd"
)

type Option func(*options)

// WithSyscalls returns the option of running on the given syscall layer
// instead of Unix.
func WithSyscalls(s fd.Syscalls) Option {
	return func(o *options) {
		o.Syscalls = s
	}
}

// WithCreateMode returns the option of creating files opened for writing
// with perm instead of 0600. Only the permission bits are used.
func WithCreateMode(perm fs.FileMode) Option {
	return func(o *options) {
		o.CreateMode = perm
	}
}

// WithMaxReadFileSize returns the option of limiting ReadFile to files of
// at most n bytes.
func WithMaxReadFileSize(n int64) Option {
	return func(o *options) {
		o.MaxReadFileSize = n
	}
}

type options struct {
	Syscalls        fd.Syscalls
	CreateMode      fs.FileMode
	MaxReadFileSize int64
}
