// Package cli renders sizing results for the terminal or as JSON.
package cli

import (
	"io"

	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
	"github.com/moby/term"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is the human-readable table with a footer (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	// DefaultMinNameWidth keeps short names from collapsing the table.
	DefaultMinNameWidth = 20
	// DefaultMaxNameWidth stops one long name from dominating the live view.
	DefaultMaxNameWidth = 50
)

// Renderer consumes a result as it grows. Update runs after every appended entry,
// Finish once at the end. Interrupt is called when something else wrote to the
// terminal between updates.
type Renderer interface {
	Update(result *models.RunResult) error
	Finish(result *models.RunResult) error
	Interrupt()
}

// TableOptions controls the text table.
type TableOptions struct {
	MinNameWidth int
	MaxNameWidth int
	Units        utils.Units
	// Color paints the size column.
	Color bool
	// Live redraws the table in place after every entry. Requires a terminal.
	Live bool
	// TermWidth is the terminal width in columns, used to count wrapped rows
	// during live redraw. Zero means unknown.
	TermWidth int
	// ExactBytes appends the exact byte count to the footer total.
	ExactBytes bool
}

// NewRenderer returns the renderer for format writing to w.
// Unknown formats fall back to text.
func NewRenderer(w io.Writer, format OutputFormat, opts TableOptions) Renderer {
	switch format {
	case OutputJSON:
		return NewJSONRenderer(w)
	default:
		return NewTableRenderer(w, opts)
	}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	_, isTerm := term.GetFdInfo(w)
	return isTerm
}

// TerminalWidth returns the width in columns of the terminal w is attached to,
// or 0 when w is not a terminal or the size is unavailable.
func TerminalWidth(w io.Writer) int {
	fd, isTerm := term.GetFdInfo(w)
	if !isTerm {
		return 0
	}
	ws, err := term.GetWinsize(fd)
	if err != nil {
		return 0
	}
	return int(ws.Width)
}

// InterruptOnLog returns a zap option that calls r.Interrupt after every entry
// the logger writes, so diagnostics are never drawn over.
func InterruptOnLog(r Renderer) zap.Option {
	return zap.Hooks(func(zapcore.Entry) error {
		r.Interrupt()
		return nil
	})
}
