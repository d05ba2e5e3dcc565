package fd

import (
	"io"
	"net"
	"reflect"
)

// CloseQuietly closes c, ignoring any error. Does nothing if c is nil,
// including a nil pointer stored in the interface.
func CloseQuietly(c io.Closer) {
	if isNil(c) {
		return
	}

	_ = c.Close()
}

// CloseSocketQuietly closes conn, ignoring any error and recovering from a
// panic raised by Close. Does nothing if conn is nil.
func CloseSocketQuietly(conn net.Conn) {
	if isNil(conn) {
		return
	}

	defer func() {
		_ = recover()
	}()

	_ = conn.Close()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}

	return false
}
