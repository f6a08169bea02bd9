package lox

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
)

// scanError is raised by the scanner for a bad character or an unterminated
// string. WHERE is always empty for scanner errors (see spec §4.1).
type scanError struct {
	line    int
	message string
}

func newScanError(line int, message string) *scanError {
	return &scanError{line: line, message: message}
}

func (e *scanError) Error() string {
	return fmt.Sprintf("[line: %d] Error : %s", e.line, e.message)
}

// parseError and staticError share the same "WHERE" formatting because both
// the parser and the resolver report against a concrete token.
type parseError struct {
	token   *Token
	message string
}

func newParseError(token *Token, message string) *parseError {
	return &parseError{token: token, message: message}
}

func (e *parseError) Error() string {
	return fmt.Sprintf("[line: %d] Error %s : %s", e.token.Line, where(e.token), e.message)
}

type staticError struct {
	token   *Token
	message string
}

func newStaticError(token *Token, message string) *staticError {
	return &staticError{token: token, message: message}
}

func (e *staticError) Error() string {
	return fmt.Sprintf("[line: %d] Error %s : %s", e.token.Line, where(e.token), e.message)
}

func where(token *Token) string {
	if token.Type == EOF {
		return "at end"
	}
	return "at " + token.Lexeme
}

// runtimeError unwinds through expression/statement evaluation up to the
// interpreter's entry point, where it is reported and the run ends.
type runtimeError struct {
	token   *Token
	message string
}

func newRuntimeError(token *Token, message string) *runtimeError {
	return &runtimeError{token: token, message: message}
}

func (e *runtimeError) Error() string {
	return fmt.Sprintf("%s\n[line: %d]", e.message, e.token.Line)
}

// Reporter defines the interface for structure that can display errors to the
// user. A reporter is defined to separate errors reporting code from errors
// displaying code. Fully-featured languages have a complex setup for
// reporting errors to the user; this one stays deliberately small.
type Reporter interface {
	Report(err error)
	Reset()
	HadError() bool
	HadRuntimeError() bool
}

// SimpleReporter writes errors as-is to the inner writer. When err is a
// *multierror.Error (as produced by the scanner and parser, which keep going
// after the first problem so the user sees every diagnostic in one pass),
// each wrapped error is reported individually.
type SimpleReporter struct {
	writer        io.Writer
	hadErr        bool
	hadRuntimeErr bool
	colorize      bool
}

func NewSimpleReporter(writer io.Writer) Reporter {
	return NewColorReporter(writer, false)
}

// NewColorReporter creates a Reporter that, when colorize is true, renders
// static diagnostics in yellow and runtime diagnostics in red.
func NewColorReporter(writer io.Writer, colorize bool) Reporter {
	reporter := new(SimpleReporter)
	reporter.writer = writer
	reporter.colorize = colorize
	return reporter
}

func (reporter *SimpleReporter) Report(err error) {
	if err == nil {
		return
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, wrapped := range merr.Errors {
			reporter.report(wrapped)
		}
		return
	}
	reporter.report(err)
}

func (reporter *SimpleReporter) report(err error) {
	_, isRuntimeErr := err.(*runtimeError)
	if isRuntimeErr {
		reporter.hadRuntimeErr = true
	} else {
		reporter.hadErr = true
	}

	line := err.Error()
	if reporter.colorize {
		if isRuntimeErr {
			line = color.RedString("%s", line)
		} else {
			line = color.YellowString("%s", line)
		}
	}
	fmt.Fprintln(reporter.writer, line)
}

func (reporter *SimpleReporter) Reset() {
	reporter.hadErr = false
	reporter.hadRuntimeErr = false
}

func (reporter *SimpleReporter) HadError() bool {
	return reporter.hadErr
}

func (reporter *SimpleReporter) HadRuntimeError() bool {
	return reporter.hadRuntimeErr
}
