// Package osfd provides descriptor utilities backed by the OS.
package osfd

import (
	"io"
	"math"
	"os"
	"syscall"

	"github.com/go-git/go-fd"
)

const (
	defaultCreateMode = 0o600

	// MaxReadFileSize is the default limit for ReadFile. Larger files are
	// refused with fd.ErrTooLarge instead of being truncated.
	MaxReadFileSize = math.MaxInt32
)

// Default is the OS instance used by the package level functions.
var Default = New()

// OS implements the descriptor utilities on top of an fd.Syscalls. An OS
// holds no mutable state and is safe for concurrent use, the descriptors it
// returns are not.
type OS struct {
	sys         fd.Syscalls
	createMode  uint32
	maxReadSize int64
	openFile    func(string) (readFile, error)
}

// New returns a new OS. Without options it uses the Unix syscalls.
func New(opts ...Option) *OS {
	o := &options{
		Syscalls:        Unix{},
		CreateMode:      defaultCreateMode,
		MaxReadFileSize: MaxReadFileSize,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &OS{
		sys:         o.Syscalls,
		createMode:  uint32(o.CreateMode.Perm()),
		maxReadSize: o.MaxReadFileSize,
		openFile:    openFile,
	}
}

// Open opens path with POSIX open(2) semantics and a stricter policy on top:
// files opened for writing are created owner read/write only, and
// directories are refused even when read-only.
//
// Every failure is reported as an *fd.NotFoundError wrapping the low level
// error. No descriptor is left open on failure.
func (o *OS) Open(path string, flags int) (fd.Descriptor, error) {
	if path == "" {
		return fd.Invalid, &fd.NotFoundError{Path: path, Err: os.NewSyscallError("open", syscall.ENOENT)}
	}

	var mode uint32
	if flags&O_ACCMODE != O_RDONLY {
		mode = o.createMode
	}

	raw, err := o.sys.Open(path, flags|O_CLOEXEC, mode)
	if err != nil {
		return fd.Invalid, &fd.NotFoundError{Path: path, Err: err}
	}

	d := fd.New(raw)
	if !d.Valid() {
		return fd.Invalid, &fd.NotFoundError{Path: path, Err: os.NewSyscallError("open", syscall.EBADF)}
	}

	// open(2) only fails with EISDIR when asked for write access.
	st, err := o.sys.Fstat(raw)
	if err == nil && st.IsDir() {
		err = os.NewSyscallError("open", syscall.EISDIR)
	}

	if err != nil {
		_ = o.Close(&d)
		return fd.Invalid, &fd.NotFoundError{Path: path, Err: err}
	}

	return d, nil
}

// Close releases the descriptor held by d and resets *d to fd.Invalid,
// whether or not close(2) succeeds. Closing an invalid descriptor or a nil
// pointer is a no-op.
func (o *OS) Close(d *fd.Descriptor) error {
	if d == nil {
		return nil
	}

	raw := d.Fd()
	*d = fd.Invalid
	if raw < 0 {
		return nil
	}

	if err := o.sys.Close(raw); err != nil {
		return &fd.IOError{Op: "close", Err: err}
	}

	return nil
}

// Closer adapts d to io.Closer, closing through o.
func (o *OS) Closer(d *fd.Descriptor) io.Closer {
	return &closer{o: o, d: d}
}

type closer struct {
	o *OS
	d *fd.Descriptor
}

func (c *closer) Close() error {
	return c.o.Close(c.d)
}

// Stat returns the status of the open descriptor d.
func (o *OS) Stat(d fd.Descriptor) (fd.Stat, error) {
	if !d.Valid() {
		return fd.Stat{}, &fd.IOError{Op: "fstat", Err: syscall.EBADF}
	}

	st, err := o.sys.Fstat(d.Fd())
	if err != nil {
		return fd.Stat{}, &fd.IOError{Op: "fstat", Err: err}
	}

	return st, nil
}

// Pipe creates a pipe. r is the read end, w the write end. On failure both
// are fd.Invalid.
func (o *OS) Pipe() (r, w fd.Descriptor, err error) {
	rfd, wfd, err := o.sys.Pipe()
	if err != nil {
		return fd.Invalid, fd.Invalid, &fd.IOError{Op: "pipe", Err: err}
	}

	return fd.New(rfd), fd.New(wfd), nil
}

// SetBlocking puts d in blocking mode when blocking is true, and in
// non-blocking mode otherwise.
func (o *OS) SetBlocking(d fd.Descriptor, blocking bool) error {
	if !d.Valid() {
		return &fd.IOError{Op: "fcntl", Err: syscall.EBADF}
	}

	if err := o.sys.SetNonblock(d.Fd(), !blocking); err != nil {
		return &fd.IOError{Op: "fcntl", Err: err}
	}

	return nil
}

// IsBlocking reports whether d is in blocking mode.
func (o *OS) IsBlocking(d fd.Descriptor) (bool, error) {
	if !d.Valid() {
		return false, &fd.IOError{Op: "fcntl", Err: syscall.EBADF}
	}

	nonblocking, err := o.sys.Nonblock(d.Fd())
	if err != nil {
		return false, &fd.IOError{Op: "fcntl", Err: err}
	}

	return !nonblocking, nil
}

// File hands the descriptor over to an *os.File and resets *d to
// fd.Invalid. From then on the descriptor must be closed through the
// returned file. Returns nil if *d is not valid.
func (o *OS) File(d *fd.Descriptor, name string) *os.File {
	if d == nil || !d.Valid() {
		return nil
	}

	raw := d.Fd()
	*d = fd.Invalid

	return os.NewFile(uintptr(raw), name)
}

// Open opens path using Default. See OS.Open.
func Open(path string, flags int) (fd.Descriptor, error) {
	return Default.Open(path, flags)
}

// Close closes d using Default. See OS.Close.
func Close(d *fd.Descriptor) error {
	return Default.Close(d)
}

// Stat returns the status of d using Default.
func Stat(d fd.Descriptor) (fd.Stat, error) {
	return Default.Stat(d)
}

// Pipe creates a pipe using Default.
func Pipe() (r, w fd.Descriptor, err error) {
	return Default.Pipe()
}

// SetBlocking sets the blocking mode of d using Default.
func SetBlocking(d fd.Descriptor, blocking bool) error {
	return Default.SetBlocking(d, blocking)
}

// IsBlocking reports the blocking mode of d using Default.
func IsBlocking(d fd.Descriptor) (bool, error) {
	return Default.IsBlocking(d)
}

// File hands d over to an *os.File. See OS.File.
func File(d *fd.Descriptor, name string) *os.File {
	return Default.File(d, name)
}

// ReadFile reads the whole file at path using Default. See OS.ReadFile.
func ReadFile(path string) ([]byte, error) {
	return Default.ReadFile(path)
}
