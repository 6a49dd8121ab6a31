// Package log writes the command's own messages and the diagnostics of the
// programs it processes.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const prefix = "minic: "

const (
	red    = "31"
	yellow = "33"
)

// Logger writes to a single sink, usually standard error.
type Logger struct {
	w       io.Writer
	color   bool
	verbose bool
}

// New returns a Logger writing to w. mode is "auto", "always" or "never";
// auto enables colour when w is a terminal and NO_COLOR is unset.
func New(w io.Writer, mode string, verbose bool) *Logger {
	return &Logger{w: w, color: useColor(w, mode), verbose: verbose}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Errorf prints a message about the command itself, prefixed with the
// program name.
func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.w, prefix+format+"\n", args...)
}

// Debugf is Errorf for verbose mode only.
func (l *Logger) Debugf(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.w, prefix+format+"\n", args...)
	}
}

// Diag prints a diagnostic as is, one per line. The leading severity
// ("Error", "Warning", "Syntax error", "Runtime error") is coloured when
// colour is on.
func (l *Logger) Diag(err error) {
	fmt.Fprintln(l.w, l.paint(err.Error()))
}

func (l *Logger) paint(msg string) string {
	if !l.color {
		return msg
	}
	for _, sev := range []struct{ word, code string }{
		{"Warning", yellow},
		{"Error", red},
		{"Syntax error", red},
		{"Runtime error", red},
		{"Unexpected end of input", red},
	} {
		if strings.HasPrefix(msg, sev.word) {
			return "\033[" + sev.code + "m" + sev.word + "\033[0m" + msg[len(sev.word):]
		}
	}
	return msg
}
