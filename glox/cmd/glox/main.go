package main

// glox is a tree-walking interpreter for the Lox programming language.

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loxlang/glox/glox/internal/lox"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	// maxOneArg rejects more than one positional argument, printing usage on
	// stderr first (usage output is otherwise silenced below).
	maxOneArg := func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			cmd.Usage()
			return err
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:           "glox [script]",
		Short:         "glox interprets Lox programs",
		Args:          maxOneArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := lox.NewLogger(verbose)
			if len(args) == 1 {
				return runFile(args[0], log)
			}
			return runPrompt(log)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace the scan/parse/resolve/interpret pipeline")
	return cmd
}

// runFile reads path as UTF-8 and evaluates it as a single program. A
// non-nil return causes the process to exit 1; nil exits 0.
func runFile(path string, log *lox.Logger) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	reporter := lox.NewColorReporter(os.Stdout, !color.NoColor)
	interpreter := lox.NewInterpreter(os.Stdout, reporter, false)
	lox.Run(string(source), interpreter, reporter, log)

	if reporter.HadError() || reporter.HadRuntimeError() {
		return fmt.Errorf("%s did not run cleanly", path)
	}
	return nil
}

// runPrompt runs the REPL: one line is evaluated as a program at a time,
// except a line ending in '{' collects continuation lines (prefixed
// "(block)>>") until a line ends in '}'. Ctrl-D exits cleanly; Ctrl-C is
// reported and the REPL continues.
func runPrompt(log *lox.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), "glox REPL — Ctrl-D to exit")

	reporter := lox.NewColorReporter(rl.Stdout(), !color.NoColor)
	interpreter := lox.NewInterpreter(rl.Stdout(), reporter, true)

	for {
		line, err := readStatement(rl)
		if err == io.EOF {
			return nil
		}
		if err == readline.ErrInterrupt {
			fmt.Fprintln(rl.Stdout(), "Interrupted. ^D to exit.")
			continue
		}
		if err != nil {
			return err
		}

		reporter.Reset()
		lox.Run(line, interpreter, reporter, log)
	}
}

// readStatement reads one top-level line. If it ends in '{', it collects
// "(block)>>"-prefixed continuation lines until one of them ends in '}', so
// multi-line function/class bodies can be typed at the prompt.
func readStatement(rl *readline.Instance) (string, error) {
	rl.SetPrompt("> ")
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(line)
	if endsIn(line, '{') {
		rl.SetPrompt("(block)>> ")
		for {
			cont, err := rl.Readline()
			if err != nil {
				return "", err
			}
			b.WriteByte('\n')
			b.WriteString(cont)
			if endsIn(cont, '}') {
				break
			}
		}
	}
	return b.String(), nil
}

func endsIn(line string, c byte) bool {
	trimmed := strings.TrimRight(line, " \t")
	return len(trimmed) > 0 && trimmed[len(trimmed)-1] == c
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.glox_history"
}
