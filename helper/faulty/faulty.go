// Package faulty provides an fd.Syscalls wrapper that injects failures into
// chosen primitives and keeps track of the descriptors it hands out.
//
// It is meant for tests exercising the error paths of the descriptor
// utilities, which the real OS rarely takes on demand.
package faulty

import (
	"errors"
	"sort"
	"sync"
	"syscall"

	"github.com/go-git/go-fd"
)

// Op names an fd.Syscalls primitive.
type Op int

const (
	OpOpen Op = iota
	OpFstat
	OpClose
	OpPipe
	OpSetNonblock
	OpNonblock
)

var opNames = [...]string{
	OpOpen:        "open",
	OpFstat:       "fstat",
	OpClose:       "close",
	OpPipe:        "pipe",
	OpSetNonblock: "setnonblock",
	OpNonblock:    "nonblock",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}

	return opNames[op]
}

// InjectedError marks an error as injected by Syscalls. It wraps the
// configured error so errors.Is/As keep working.
type InjectedError struct {
	Op  Op
	Err error
}

func (e *InjectedError) Error() string {
	return "injected " + e.Op.String() + ": " + e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err, or any error it wraps, was injected.
func IsInjected(err error) bool {
	var injected *InjectedError
	return errors.As(err, &injected)
}

type fault struct {
	err    error
	sticky bool
}

// Syscalls wraps another fd.Syscalls. It is safe for concurrent use.
type Syscalls struct {
	inner fd.Syscalls

	mu     sync.Mutex
	faults map[Op]fault
	calls  map[Op]int
	open   map[int]struct{}
}

// New returns a Syscalls forwarding to inner until a fault is armed.
func New(inner fd.Syscalls) *Syscalls {
	return &Syscalls{
		inner:  inner,
		faults: make(map[Op]fault),
		calls:  make(map[Op]int),
		open:   make(map[int]struct{}),
	}
}

// Fail arms a fault failing the next call to op with err. A nil err
// defaults to EIO.
func (s *Syscalls) Fail(op Op, err error) {
	s.arm(op, err, false)
}

// FailAlways arms a fault failing every call to op with err until Reset.
func (s *Syscalls) FailAlways(op Op, err error) {
	s.arm(op, err, true)
}

func (s *Syscalls) arm(op Op, err error, sticky bool) {
	if err == nil {
		err = syscall.EIO
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = fault{err: err, sticky: sticky}
}

// Reset disarms every fault. Call counts and tracked descriptors are kept.
func (s *Syscalls) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[Op]fault)
}

// Calls returns how many times op was called, failed calls included.
func (s *Syscalls) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Leaked returns, in ascending order, the descriptors created through s and
// not closed through s yet.
func (s *Syscalls) Leaked() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	fds := make([]int, 0, len(s.open))
	for n := range s.open {
		fds = append(fds, n)
	}

	sort.Ints(fds)
	return fds
}

// enter records a call to op and returns the armed fault, if any.
func (s *Syscalls) enter(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[op]++
	f, ok := s.faults[op]
	if !ok {
		return nil
	}

	if !f.sticky {
		delete(s.faults, op)
	}

	return &InjectedError{Op: op, Err: f.err}
}

func (s *Syscalls) track(fds ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range fds {
		s.open[n] = struct{}{}
	}
}

func (s *Syscalls) untrack(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, n)
}

func (s *Syscalls) Open(path string, flags int, mode uint32) (int, error) {
	if err := s.enter(OpOpen); err != nil {
		return -1, err
	}

	n, err := s.inner.Open(path, flags, mode)
	if err != nil {
		return n, err
	}

	s.track(n)
	return n, nil
}

func (s *Syscalls) Fstat(n int) (fd.Stat, error) {
	if err := s.enter(OpFstat); err != nil {
		return fd.Stat{}, err
	}

	return s.inner.Fstat(n)
}

// Close always releases n through the inner Syscalls, as close(2) does on
// Linux even when it reports an error, and only then returns the injected
// fault.
func (s *Syscalls) Close(n int) error {
	injected := s.enter(OpClose)

	err := s.inner.Close(n)
	if err == nil {
		s.untrack(n)
	}

	if injected != nil {
		return injected
	}

	return err
}

func (s *Syscalls) Pipe() (r, w int, err error) {
	if err := s.enter(OpPipe); err != nil {
		return -1, -1, err
	}

	r, w, err = s.inner.Pipe()
	if err != nil {
		return r, w, err
	}

	s.track(r, w)
	return r, w, nil
}

func (s *Syscalls) SetNonblock(n int, nonblocking bool) error {
	if err := s.enter(OpSetNonblock); err != nil {
		return err
	}

	return s.inner.SetNonblock(n, nonblocking)
}

func (s *Syscalls) Nonblock(n int) (bool, error) {
	if err := s.enter(OpNonblock); err != nil {
		return false, err
	}

	return s.inner.Nonblock(n)
}

var _ fd.Syscalls = (*Syscalls)(nil)
