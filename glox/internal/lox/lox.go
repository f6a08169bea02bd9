package lox

import (
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// Logger is the ambient tracing logger type Run accepts, re-exported so
// callers outside this package (the cmd/glox driver) don't need their own
// import of logrus just to hold a reference to it.
type Logger = logrus.Logger

// Run scans, parses, resolves and interprets a single program against the
// given interpreter and reporter. Each phase short-circuits the next: if
// scanning or parsing reports an error, execution is skipped; the same holds
// for resolution. Runtime errors are reported by the interpreter itself and
// do not prevent Run from returning.
//
// log receives verbose, non-Lox-facing tracing (token/statement counts); it
// is never nil in practice, but callers that don't care can pass
// logrus.StandardLogger() with its level left at its default.
func Run(source string, interpreter *Interpreter, reporter Reporter, log *logrus.Logger) {
	scanner := NewScanner(source)
	tokens, err := scanner.Scan()
	log.WithField("tokens", len(tokens)).Debug("scanned source")
	if err != nil {
		reporter.Report(err)
		return
	}
	if reporter.HadError() {
		return
	}

	parser := NewParser(tokens)
	statements, err := parser.Parse()
	log.WithField("statements", len(statements)).Debug("parsed tokens")
	if err != nil {
		reporter.Report(err)
		return
	}
	if reporter.HadError() {
		return
	}

	resolver := NewResolver(interpreter)
	if err := resolver.Resolve(statements); err != nil {
		reporter.Report(err)
		return
	}
	if reporter.HadError() {
		return
	}

	log.Debug("entering interpreter")
	interpreter.Interpret(statements)
}

// NewLogger builds the logrus logger used for the ambient, non-Lox-facing
// tracing Run emits. Kept separate from Reporter because Lox diagnostics are
// product output (they go to the user regardless of verbosity), while this
// logger is purely an operability aid.
func NewLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&easy.Formatter{
		LogFormat: "[%lvl%] %msg%\n",
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
