package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/pacer/internal/schedule"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	minBarWidth         = 10
	colorReset          = "\x1b[0m"
	colorPlanned        = "\x1b[36m"
	colorLogged         = "\x1b[32m"
)

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// VolumeBars draws planned and logged km per week as paired horizontal bars.
// A non-positive totalWidth uses the terminal width.
func VolumeBars(w io.Writer, progress []schedule.WeekProgress, totalWidth int, useColor bool) error {
	if len(progress) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	label := fmt.Sprintf("W%d ", len(progress))
	barWidth := BarWidthFor(totalWidth, displayWidth(label)+len(" 000.0 km"))

	peak := 0.0
	for _, p := range progress {
		peak = math.Max(peak, math.Max(p.PlannedKm, p.LoggedKm))
	}
	for _, p := range progress {
		prefix := padCell(fmt.Sprintf("W%d", p.Week), displayWidth(label)-1, false) + " "
		planned := bar(p.PlannedKm, peak, barWidth, '=')
		logged := bar(p.LoggedKm, peak, barWidth, '#')
		if useColor {
			planned = colorPlanned + planned + colorReset
			logged = colorLogged + logged + colorReset
		}
		if _, err := fmt.Fprintf(w, "%s%s %5.1f km\n", prefix, planned, p.PlannedKm); err != nil {
			return err
		}
		blank := strings.Repeat(" ", displayWidth(prefix))
		if _, err := fmt.Fprintf(w, "%s%s %5.1f km\n", blank, logged, p.LoggedKm); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "Legend: = planned  # logged")
	return err
}

// BarWidthFor fits a bar next to reserved columns within totalWidth.
func BarWidthFor(totalWidth, reserved int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	return max(totalWidth-reserved, minBarWidth)
}

func bar(value, peak float64, width int, fill rune) string {
	n := 0
	if peak > 0 && value > 0 {
		n = int(math.Round(value / peak * float64(width)))
	}
	n = max(0, min(n, width))
	return strings.Repeat(string(fill), n) + strings.Repeat(" ", width-n)
}

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colors suit w.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
