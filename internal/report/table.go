package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode controls ANSI styling.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid checks if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorMuted     = lipgloss.Color("245") // Light gray
)

// WriteTable renders the results as a table followed by a verdict line.
func WriteTable(w io.Writer, doc *Document, color ColorMode) error {
	re := newRenderer(w, color)

	headerStyle := re.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle := re.NewStyle().Padding(0, 1)
	winnerStyle := cellStyle.Foreground(colorSuccess).Bold(true)
	mutedStyle := re.NewStyle().Foreground(colorMuted)

	rows := make([][]string, len(doc.Results))
	winner := -1
	for i, res := range doc.Results {
		rows[i] = []string{
			res.Label,
			formatNumber(float64(res.Constant)),
			formatNumber(float64(res.Error)),
			strconv.Itoa(res.Rounds),
		}
		if res.Capped {
			rows[i][3] += "*"
		}
		if winner < 0 && res.Label == doc.Verdict.Label {
			winner = i
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(colorSecondary)).
		Headers("GROWTH", "C", "ERROR", "ROUNDS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == winner:
				return winnerStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s %s %s\n",
		headerStyle.UnsetPadding().Render("Verdict:"),
		winnerStyle.UnsetPadding().Render(doc.Verdict.Label),
		mutedStyle.Render(fmt.Sprintf("(C=%s, error=%s)",
			formatNumber(float64(doc.Verdict.Constant)),
			formatNumber(float64(doc.Verdict.Error)))),
	)

	_, err := io.WriteString(w, b.String())
	return err
}

func newRenderer(w io.Writer, color ColorMode) *lipgloss.Renderer {
	re := lipgloss.NewRenderer(w)
	switch {
	case color == ColorNever || os.Getenv("NO_COLOR") != "":
		re.SetColorProfile(termenv.Ascii)
	case color == ColorAlways:
		re.SetColorProfile(termenv.ANSI256)
	case !isTerminal(w):
		re.SetColorProfile(termenv.Ascii)
	}
	return re
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// FormatColumns aligns rows of plain text into columns separated by two
// spaces. Columns listed in rightAlign are right-aligned.
func FormatColumns(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlign))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		if rightAlign[i] {
			b.WriteString(runewidth.FillLeft(cell, width))
		} else if i < len(widths)-1 {
			b.WriteString(runewidth.FillRight(cell, width))
		} else {
			b.WriteString(cell)
		}
	}
	return b.String()
}
