package fd

import "strconv"

// Descriptor is an opaque handle over a raw file descriptor. It is a plain
// value: copies refer to the same OS-level descriptor, and rebinding with
// WithFd yields a new value instead of changing the original.
//
// The zero value is Invalid.
type Descriptor struct {
	// v is the raw descriptor plus one, so that the zero value maps to -1.
	v int
}

// Invalid is the sentinel for "no open descriptor". Its Fd is -1.
var Invalid = Descriptor{}

// New returns a Descriptor bound to raw. No validation is done, the caller
// must ensure raw refers to an open descriptor.
func New(raw int) Descriptor {
	return Descriptor{v: raw + 1}
}

// Fd returns the raw descriptor, -1 for Invalid.
func (d Descriptor) Fd() int {
	return d.v - 1
}

// WithFd returns a Descriptor bound to raw, leaving d untouched.
func (d Descriptor) WithFd(raw int) Descriptor {
	return New(raw)
}

// Valid reports whether d holds a non-negative descriptor.
func (d Descriptor) Valid() bool {
	return d.Fd() >= 0
}

func (d Descriptor) String() string {
	if !d.Valid() {
		return "fd(invalid)"
	}

	return "fd(" + strconv.Itoa(d.Fd()) + ")"
}
