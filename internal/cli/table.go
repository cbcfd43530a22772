package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
	"github.com/mattn/go-runewidth"
	"github.com/morikuni/aec"
)

const columnGap = "  "

// TableRenderer prints entries as a two-column table followed by a boxed summary.
// In live mode the whole table is redrawn in place after every entry.
type TableRenderer struct {
	w     io.Writer
	opts  TableOptions
	drawn int // screen lines of the current on-screen rendering
}

// NewTableRenderer creates a TableRenderer writing to w. Zero widths take the defaults.
func NewTableRenderer(w io.Writer, opts TableOptions) *TableRenderer {
	if opts.MinNameWidth <= 0 {
		opts.MinNameWidth = DefaultMinNameWidth
	}
	if opts.MaxNameWidth <= 0 {
		opts.MaxNameWidth = DefaultMaxNameWidth
	}
	if opts.MaxNameWidth < opts.MinNameWidth {
		opts.MaxNameWidth = opts.MinNameWidth
	}
	if opts.Units == "" {
		opts.Units = utils.UnitsDecimal
	}
	return &TableRenderer{w: w, opts: opts}
}

// Update redraws the accumulated table when live; otherwise it does nothing.
func (t *TableRenderer) Update(result *models.RunResult) error {
	if !t.opts.Live {
		return nil
	}
	return t.redraw(result.Entries)
}

// Interrupt records that something else was written to the terminal. The next
// update starts a fresh table below it instead of redrawing over it.
func (t *TableRenderer) Interrupt() {
	t.drawn = 0
}

// Finish prints the table (unless it is already on screen) and the footer box.
func (t *TableRenderer) Finish(result *models.RunResult) error {
	var b strings.Builder
	if !t.opts.Live || t.drawn == 0 {
		rows, _ := t.formatRows(result.Entries)
		for _, line := range rows {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if result.Found() > 0 {
		b.WriteByte('\n')
	}
	for _, line := range Box(t.footer(result)) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TableRenderer) redraw(entries []models.Entry) error {
	var b strings.Builder
	if t.drawn > 0 {
		b.WriteString(aec.Up(uint(t.drawn)).String())
		b.WriteString(aec.EraseDisplay(aec.EraseModes.Tail).String())
	}
	rows, lines := t.formatRows(entries)
	for _, line := range rows {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return err
	}
	t.drawn = lines
	return nil
}

func (t *TableRenderer) footer(result *models.RunResult) []string {
	total := utils.FormatSize(result.TotalBytes, t.opts.Units)
	if t.opts.ExactBytes {
		total = fmt.Sprintf("%s (%s bytes)", total, utils.FormatExact(result.TotalBytes))
	}
	return []string{
		fmt.Sprintf("Found: %d", result.Found()),
		"Total size: " + total,
	}
}

// formatRows lays out one line per entry: the name padded to the name column,
// then the size right-aligned. The width ceiling only applies to live output.
// It also returns how many screen lines the rows occupy once wrapped at
// TermWidth.
func (t *TableRenderer) formatRows(entries []models.Entry) ([]string, int) {
	nameWidth, sizeWidth := t.opts.MinNameWidth, 0
	for _, e := range entries {
		nameWidth = max(nameWidth, utils.Width(e.Name))
		sizeWidth = max(sizeWidth, utils.Width(e.Length))
	}
	if t.opts.Live {
		nameWidth = min(nameWidth, t.opts.MaxNameWidth)
	}

	rows := make([]string, 0, len(entries))
	lines := 0
	for _, e := range entries {
		name := runewidth.FillRight(utils.Truncate(e.Name, nameWidth), nameWidth)
		size := runewidth.FillLeft(e.Length, sizeWidth)
		lines += screenLines(utils.Width(name+columnGap+size), t.opts.TermWidth)
		if t.opts.Color {
			size = aec.CyanF.Apply(size)
		}
		rows = append(rows, name+columnGap+size)
	}
	return rows, lines
}

// screenLines is the number of terminal lines a row of the given display width
// takes when the terminal is cols wide. Unknown widths count as one line.
func screenLines(width, cols int) int {
	if cols <= 0 || width <= cols {
		return 1
	}
	return (width + cols - 1) / cols
}
