package lox

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// callable is implemented by every Lox value that can appear on the left of
// a call expression: user-defined functions, bound methods, classes
// (instantiation), and native built-ins.
type callable interface {
	arity() int
	call(in *Interpreter, args []interface{}) (interface{}, error)
}

// nativeClock implements the `clock()` native: seconds since the Unix epoch.
type nativeClock struct{}

func (*nativeClock) arity() int { return 0 }
func (*nativeClock) call(_ *Interpreter, _ []interface{}) (interface{}, error) {
	return float64(time.Now().UnixNano()) / float64(time.Second), nil
}

// nativeGetc implements the `getc()` native: one character from stdin, or -1
// at EOF.
type nativeGetc struct {
	reader *bufio.Reader
}

func newNativeGetc() *nativeGetc {
	return &nativeGetc{reader: bufio.NewReader(os.Stdin)}
}

func (*nativeGetc) arity() int { return 0 }
func (n *nativeGetc) call(_ *Interpreter, _ []interface{}) (interface{}, error) {
	r, _, err := n.reader.ReadRune()
	if err != nil {
		return float64(-1), nil
	}
	return float64(r), nil
}

// nativeChr implements the `chr(n)` native: the single-character string for
// code point n.
type nativeChr struct{}

func (*nativeChr) arity() int { return 1 }
func (*nativeChr) call(_ *Interpreter, args []interface{}) (interface{}, error) {
	n, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("chr() expects a number")
	}
	return string(rune(int32(n))), nil
}

// nativeExit implements the `exit(code)` native.
type nativeExit struct{}

func (*nativeExit) arity() int { return 1 }
func (*nativeExit) call(_ *Interpreter, args []interface{}) (interface{}, error) {
	code, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("exit() expects a number")
	}
	os.Exit(int(code))
	return nil, nil
}

// nativePrintError implements the `print_error(v)` native.
type nativePrintError struct {
	writer *os.File
}

func (*nativePrintError) arity() int { return 1 }
func (n *nativePrintError) call(_ *Interpreter, args []interface{}) (interface{}, error) {
	fmt.Fprintln(n.writer, stringify(args[0]))
	return nil, nil
}

// defineNatives installs every native callable into the globals environment.
func defineNatives(globals *environment) {
	globals.define("clock", new(nativeClock))
	globals.define("getc", newNativeGetc())
	globals.define("chr", new(nativeChr))
	globals.define("exit", new(nativeExit))
	globals.define("print_error", &nativePrintError{writer: os.Stderr})
}
