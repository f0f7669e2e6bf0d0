// Package ui prints user-facing messages. Styling degrades automatically:
// color is dropped when output is piped, when the terminal cannot render it
// or when NO_COLOR is set. Quiet levels progressively silence informational
// output; warnings and errors always print.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Printer writes user-facing messages to the terminal
type Printer struct {
	// quiet level: 0 everything, 1 suppress info, 2 suppress warnings too
	quiet int
}

// New creates a Printer at the given quiet level and configures styling for
// the current terminal
func New(quiet int) *Printer {
	if !styledTerminal() {
		pterm.DisableColor()
	}
	return &Printer{quiet: quiet}
}

// styledTerminal reports whether stdout can take styled output
func styledTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Info prints a progress message
func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet >= 1 {
		return
	}
	pterm.Info.Printfln(format, args...)
}

// Success prints a completion message
func (p *Printer) Success(format string, args ...interface{}) {
	if p.quiet >= 1 {
		return
	}
	pterm.Success.Printfln(format, args...)
}

// Warning prints a non-fatal problem
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.quiet >= 2 {
		return
	}
	pterm.Warning.Printfln(format, args...)
}

// Error prints a fatal problem
func (p *Printer) Error(format string, args ...interface{}) {
	pterm.Error.Printfln(format, args...)
}
