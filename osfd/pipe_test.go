//go:build unix

package osfd_test

import (
	"bytes"
	"errors"
	"syscall"
	"testing"

	"github.com/go-git/go-fd"
	"github.com/go-git/go-fd/helper/faulty"
	"github.com/go-git/go-fd/osfd"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"
)

func TestPipe(t *testing.T) {
	g := NewWithT(t)
	o, _, _ := setup(t)

	r, w, err := o.Pipe()
	g.Expect(err).NotTo(HaveOccurred())
	defer o.Close(&r)
	defer o.Close(&w)

	g.Expect(r.Valid()).To(BeTrue())
	g.Expect(w.Valid()).To(BeTrue())
	g.Expect(r).NotTo(Equal(w))

	var sent []byte
	for i := 0; i < 32; i++ {
		chunk := bytes.Repeat([]byte{byte(i)}, 256)
		n, err := unix.Write(w.Fd(), chunk)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(n).To(Equal(len(chunk)))
		sent = append(sent, chunk...)
	}

	// closing the write end makes the reader see EOF once drained
	g.Expect(o.Close(&w)).To(Succeed())

	var got []byte
	buf := make([]byte, 1000)
	for {
		n, err := unix.Read(r.Fd(), buf)
		g.Expect(err).NotTo(HaveOccurred())
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}

	g.Expect(got).To(Equal(sent))
}

func TestPipeReadEndIsNotWritable(t *testing.T) {
	g := NewWithT(t)
	o, _, _ := setup(t)

	r, w, err := o.Pipe()
	g.Expect(err).NotTo(HaveOccurred())
	defer o.Close(&r)
	defer o.Close(&w)

	_, err = unix.Write(r.Fd(), []byte("x"))
	g.Expect(errors.Is(err, syscall.EBADF)).To(BeTrue())
}

func TestPipeFailure(t *testing.T) {
	g := NewWithT(t)
	o, sys, _ := setup(t)
	sys.Fail(faulty.OpPipe, syscall.EMFILE)

	r, w, err := o.Pipe()
	g.Expect(err).To(MatchError(fd.ErrIO))
	g.Expect(errors.Is(err, syscall.EMFILE)).To(BeTrue())
	g.Expect(r).To(Equal(fd.Invalid))
	g.Expect(w).To(Equal(fd.Invalid))
}

func TestPipeFile(t *testing.T) {
	g := NewWithT(t)

	r, w, err := osfd.Pipe()
	g.Expect(err).NotTo(HaveOccurred())

	rf := osfd.File(&r, "r")
	defer rf.Close()
	wf := osfd.File(&w, "w")

	_, err = wf.Write([]byte("through os.File"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(wf.Close()).To(Succeed())

	buf := make([]byte, 64)
	n, err := rf.Read(buf)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(buf[:n])).To(Equal("through os.File"))
}

func TestSetBlocking(t *testing.T) {
	g := NewWithT(t)
	o, _, _ := setup(t)

	r, w, err := o.Pipe()
	g.Expect(err).NotTo(HaveOccurred())
	defer o.Close(&r)
	defer o.Close(&w)

	blocking, err := o.IsBlocking(r)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(blocking).To(BeTrue())

	g.Expect(o.SetBlocking(r, false)).To(Succeed())
	blocking, err = o.IsBlocking(r)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(blocking).To(BeFalse())

	_, err = unix.Read(r.Fd(), make([]byte, 1))
	g.Expect(errors.Is(err, syscall.EAGAIN)).To(BeTrue())

	g.Expect(o.SetBlocking(r, true)).To(Succeed())
	blocking, err = o.IsBlocking(r)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(blocking).To(BeTrue())

	// the write end is untouched
	blocking, err = o.IsBlocking(w)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(blocking).To(BeTrue())
}

func TestSetBlockingInvalid(t *testing.T) {
	g := NewWithT(t)
	o, sys, _ := setup(t)

	err := o.SetBlocking(fd.Invalid, false)
	g.Expect(err).To(MatchError(fd.ErrIO))
	g.Expect(errors.Is(err, syscall.EBADF)).To(BeTrue())

	_, err = o.IsBlocking(fd.Invalid)
	g.Expect(errors.Is(err, syscall.EBADF)).To(BeTrue())

	g.Expect(sys.Calls(faulty.OpSetNonblock)).To(BeZero())
	g.Expect(sys.Calls(faulty.OpNonblock)).To(BeZero())
}

func TestSetBlockingFailure(t *testing.T) {
	g := NewWithT(t)
	o, sys, _ := setup(t)

	r, w, err := o.Pipe()
	g.Expect(err).NotTo(HaveOccurred())
	defer o.Close(&r)
	defer o.Close(&w)

	sys.Fail(faulty.OpSetNonblock, syscall.EPERM)
	err = o.SetBlocking(r, false)

	var ioErr *fd.IOError
	g.Expect(errors.As(err, &ioErr)).To(BeTrue())
	g.Expect(ioErr.Op).To(Equal("fcntl"))
	g.Expect(faulty.IsInjected(err)).To(BeTrue())

	blocking, err := o.IsBlocking(r)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(blocking).To(BeTrue())
}
