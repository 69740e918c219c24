package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/mcoot/askgod-go/internal/protocol"
)

// Raw traffic echo prefixes for --verbose.
const (
	prefixSent     = ">>>>> "
	prefixReceived = "<<<< "
)

// Printer renders server and client output, color-coded by response code.
type Printer struct {
	verbose bool

	success *color.Color
	failure *color.Color
	block   *color.Color
	notice  *color.Color
}

// NewPrinter creates a Printer. Colors are disabled entirely when noColor is
// set (or when the terminal does not support them).
func NewPrinter(verbose, noColor bool) *Printer {
	if noColor {
		color.NoColor = true
	}
	return &Printer{
		verbose: verbose,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		block:   color.New(color.FgCyan),
		notice:  color.New(color.FgYellow),
	}
}

// ServerLine prints one line received from the server, colored by its code.
func (p *Printer) ServerLine(line string) {
	switch {
	case strings.HasPrefix(line, protocol.CodeOK), strings.HasPrefix(line, protocol.CodeWelcome):
		p.success.Println(line)
	case strings.HasPrefix(line, protocol.CodeError), strings.HasPrefix(line, protocol.CodeInvalid):
		p.failure.Println(line)
	case protocol.IsBlockResponse(line):
		p.block.Println(line)
	default:
		fmt.Println(line)
	}
}

// BlockLine prints a line from inside a multi-line block.
func (p *Printer) BlockLine(line string) {
	p.block.Println(line)
}

// Notice prints client-side guidance.
func (p *Printer) Notice(format string, args ...any) {
	p.notice.Printf(format+"\n", args...)
}

// Errorf prints a client-side error.
func (p *Printer) Errorf(format string, args ...any) {
	p.failure.Printf(format+"\n", args...)
}

// Sent echoes an outgoing protocol line when verbose.
func (p *Printer) Sent(line string) {
	if p.verbose {
		fmt.Println(prefixSent + line)
	}
}

// Received echoes an incoming protocol line when verbose.
func (p *Printer) Received(line string) {
	if p.verbose {
		fmt.Println(prefixReceived + line)
	}
}
