// fdutil is a small CLI around the descriptor utilities.
//
// Usage:
//
//	fdutil cat <path>...              Print files read with ReadFile
//	fdutil sum [--hex] <path>...      Print the xxhash64 of files
//	fdutil stat [--root dir] <path>   Open a file read-only and print its status
//	fdutil pipe [--nonblock] <text>   Send text through a pipe and print it back
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-fd"
	"github.com/go-git/go-fd/helper/chroot"
	"github.com/go-git/go-fd/osfd"
	flag "github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	flags func() *flag.FlagSet
	exec  func(fs *flag.FlagSet, stdout io.Writer) error
}

var commands = map[string]command{
	"cat": {
		usage: "cat <path>...",
		flags: func() *flag.FlagSet { return flag.NewFlagSet("cat", flag.ContinueOnError) },
		exec:  execCat,
	},
	"sum": {
		usage: "sum [--hex] <path>...",
		flags: func() *flag.FlagSet {
			fs := flag.NewFlagSet("sum", flag.ContinueOnError)
			fs.Bool("hex", false, "print the sum in hexadecimal")
			return fs
		},
		exec: execSum,
	},
	"stat": {
		usage: "stat [--root dir] <path>",
		flags: func() *flag.FlagSet {
			fs := flag.NewFlagSet("stat", flag.ContinueOnError)
			fs.String("root", "", "resolve path inside this directory")
			return fs
		},
		exec: execStat,
	},
	"pipe": {
		usage: "pipe [--nonblock] <text>",
		flags: func() *flag.FlagSet {
			fs := flag.NewFlagSet("pipe", flag.ContinueOnError)
			fs.Bool("nonblock", false, "put the read end in non-blocking mode")
			return fs
		},
		exec: execPipe,
	},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "fdutil: unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	fs := cmd.flags()
	fs.SetOutput(stderr)
	if err := fs.Parse(args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "fdutil: %v\n", err)
		}
		fmt.Fprintf(stderr, "usage: fdutil %s\n", cmd.usage)
		return exitUsage
	}

	if err := cmd.exec(fs, stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: fdutil %s\n", cmd.usage)
			return exitUsage
		}

		fmt.Fprintf(stderr, "fdutil: %v\n", err)
		return exitError
	}

	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: fdutil <command> [flags] [args]")
	for _, name := range []string{"cat", "sum", "stat", "pipe"} {
		fmt.Fprintf(w, "  fdutil %s\n", commands[name].usage)
	}
}

func execCat(fs *flag.FlagSet, stdout io.Writer) error {
	if fs.NArg() == 0 {
		return errUsage
	}

	for _, path := range fs.Args() {
		data, err := osfd.ReadFile(path)
		if err != nil {
			return err
		}

		if _, err := stdout.Write(data); err != nil {
			return err
		}
	}

	return nil
}

func execSum(fs *flag.FlagSet, stdout io.Writer) error {
	if fs.NArg() == 0 {
		return errUsage
	}

	hex, _ := fs.GetBool("hex")
	for _, path := range fs.Args() {
		data, err := osfd.ReadFile(path)
		if err != nil {
			return err
		}

		sum := xxhash.Sum64(data)
		if hex {
			fmt.Fprintf(stdout, "%016x  %s\n", sum, path)
		} else {
			fmt.Fprintf(stdout, "%d  %s\n", sum, path)
		}
	}

	return nil
}

func execStat(fs *flag.FlagSet, stdout io.Writer) error {
	if fs.NArg() != 1 {
		return errUsage
	}

	path := fs.Arg(0)
	root, _ := fs.GetString("root")

	var (
		d   fd.Descriptor
		err error
	)
	if root != "" {
		d, err = chroot.New(root, nil).Open(path, osfd.O_RDONLY)
	} else {
		d, err = osfd.Open(path, osfd.O_RDONLY)
	}
	if err != nil {
		return err
	}
	defer fd.CloseQuietly(osfd.Default.Closer(&d))

	st, err := osfd.Stat(d)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s\t%v\t%d\n", path, st.Mode, st.Size)
	return nil
}

func execPipe(fs *flag.FlagSet, stdout io.Writer) error {
	if fs.NArg() == 0 {
		return errUsage
	}

	text := strings.Join(fs.Args(), " ")
	nonblock, _ := fs.GetBool("nonblock")

	r, w, err := osfd.Pipe()
	if err != nil {
		return err
	}

	if nonblock {
		if err := osfd.SetBlocking(r, false); err != nil {
			fd.CloseQuietly(osfd.Default.Closer(&r))
			fd.CloseQuietly(osfd.Default.Closer(&w))
			return err
		}
	}

	rf := osfd.File(&r, "pipe-r")
	defer rf.Close()

	wf := osfd.File(&w, "pipe-w")
	errc := make(chan error, 1)
	go func() {
		_, err := io.WriteString(wf, text+"\n")
		if cerr := wf.Close(); err == nil {
			err = cerr
		}
		errc <- err
	}()

	if _, err := io.Copy(stdout, rf); err != nil {
		return err
	}

	return <-errc
}
