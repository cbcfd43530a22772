package cli

import (
	"strings"

	"github.com/hyperjump/sizof/pkg/utils"
	"github.com/mattn/go-runewidth"
)

const (
	boxPadX = 3
	boxPadY = 1
)

// Box draws lines inside a single-line border with one line of vertical and three
// columns of horizontal padding.
func Box(lines []string) []string {
	width := 0
	for _, l := range lines {
		width = max(width, utils.Width(l))
	}
	inner := width + 2*boxPadX
	pad := strings.Repeat(" ", boxPadX)
	blank := "│" + strings.Repeat(" ", inner) + "│"

	out := make([]string, 0, len(lines)+2+2*boxPadY)
	out = append(out, "┌"+strings.Repeat("─", inner)+"┐")
	for i := 0; i < boxPadY; i++ {
		out = append(out, blank)
	}
	for _, l := range lines {
		out = append(out, "│"+pad+runewidth.FillRight(l, width)+pad+"│")
	}
	for i := 0; i < boxPadY; i++ {
		out = append(out, blank)
	}
	out = append(out, "└"+strings.Repeat("─", inner)+"┘")
	return out
}
