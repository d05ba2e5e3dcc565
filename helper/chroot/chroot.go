package chroot

import (
	"errors"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-fd"
	"github.com/go-git/go-fd/osfd"
)

// Chroot opens files relative to a base directory. Names are resolved as if
// base were the root of the filesystem: ".." never climbs above it and
// symlinks are evaluated inside it.
//
// The resolution happens before the file is opened, so a concurrent rename
// of a path component can still redirect the open.
type Chroot struct {
	base       string
	underlying *osfd.OS
}

// New returns a Chroot opening files under base through u. A nil u means
// osfd.Default.
func New(base string, u *osfd.OS) *Chroot {
	if u == nil {
		u = osfd.Default
	}

	return &Chroot{base: filepath.Clean(base), underlying: u}
}

// Base returns the base directory.
func (c *Chroot) Base() string {
	return c.base
}

// Join resolves name under the base directory.
func (c *Chroot) Join(name string) (string, error) {
	return securejoin.SecureJoin(c.base, name)
}

// Open resolves name and opens it. See osfd.OS.Open. Errors name the file
// as given, not the resolved host path.
func (c *Chroot) Open(name string, flags int) (fd.Descriptor, error) {
	fullpath, err := c.Join(name)
	if err != nil {
		return fd.Invalid, &fd.NotFoundError{Path: name, Err: err}
	}

	d, err := c.underlying.Open(fullpath, flags)
	var nf *fd.NotFoundError
	if errors.As(err, &nf) {
		nf.Path = name
	}

	return d, err
}

// ReadFile resolves name and reads it. See osfd.OS.ReadFile.
func (c *Chroot) ReadFile(name string) ([]byte, error) {
	fullpath, err := c.Join(name)
	if err != nil {
		return nil, &fd.IOError{Op: "read", Path: name, Err: err}
	}

	return c.underlying.ReadFile(fullpath)
}
