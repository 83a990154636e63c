package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"condo/internal/table"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true).
			MarginTop(1)

	boldStyle = lipgloss.NewStyle().Bold(true)

	headingRe = regexp.MustCompile(`(?m)^#+\s+(.*)$`)
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// RenderMarkdown renders text for the terminal with glamour, falling back to
// a lipgloss rendering of headings and bold text when no renderer can be
// built.
func RenderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return PlainMarkdown(text), nil
	}
	return r.Render(text)
}

// PlainMarkdown styles headings and bold spans and leaves the rest as is.
func PlainMarkdown(text string) string {
	text = headingRe.ReplaceAllStringFunc(text, func(s string) string {
		return headingStyle.Render(strings.TrimLeft(s, "# "))
	})
	return boldRe.ReplaceAllStringFunc(text, func(s string) string {
		if m := boldRe.FindStringSubmatch(s); len(m) > 1 {
			return boldStyle.Render(m[1])
		}
		return s
	})
}

func renderChips(chips []table.Chip) string {
	if len(chips) == 0 {
		return ""
	}
	out := make([]string, len(chips))
	for i, c := range chips {
		out[i] = chipStyle.Render(c.Label + " ×")
	}
	return strings.Join(out, " ")
}

func renderFilterPanel(controls []table.FilterControl, focus int) string {
	if len(controls) == 0 {
		return ""
	}
	var lines []string
	for i, c := range controls {
		value := "Todos"
		for _, o := range c.Options {
			if o.Value == c.Selected {
				value = o.Label
				break
			}
		}
		line := fmt.Sprintf("%s: ‹ %s ›", c.Label, value)
		if i == focus {
			line = focusedControlStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderError(err error) string {
	return errorStyle.Render("Erro: "+err.Error()) + "\n" + mutedStyle.Render("R: tentar novamente")
}

// renderSkeletons draws placeholder rows or cards while loading.
func renderSkeletons[T any](v table.View[T]) string {
	lines := make([]string, v.Skeletons)
	for i := range lines {
		if v.Layout == table.Mobile {
			lines[i] = cardStyle.Render(skeletonStyle.Render(strings.Repeat("░", 24) + "\n" + strings.Repeat("░", 16)))
		} else {
			lines[i] = skeletonStyle.Render(strings.Repeat("░", 48))
		}
	}
	return strings.Join(lines, "\n")
}

// renderTable draws the desktop layout.
func renderTable[T any](v table.View[T], cursor int) string {
	widths := make([]int, len(v.Headers))
	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		label := h.Label
		if h.Sorted {
			if h.Direction == table.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers[i] = label
		widths[i] = lipgloss.Width(label)
	}
	for _, r := range v.Rows {
		for i, c := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c.Text))
			}
		}
	}

	var lines []string
	var head []string
	for i, h := range headers {
		style := headerCellStyle
		if v.Headers[i].Sorted {
			style = sortedHeaderStyle
		}
		head = append(head, style.Width(widths[i]+2).Render(h))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, head...))

	for ri, r := range v.Rows {
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			w := 0
			if i < len(widths) {
				w = widths[i] + 2
			}
			cells[i] = lipgloss.NewStyle().Width(w).Render(c.Text)
		}
		line := strings.Join(cells, "")
		if ri == cursor {
			line = selectedRowStyle.Render(line)
		} else {
			line = cellStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderCards draws the mobile layout: one bordered card per record with a
// label and value per column.
func renderCards[T any](v table.View[T], cursor, width int) string {
	cards := make([]string, 0, len(v.Rows))
	for ri, r := range v.Rows {
		var lines []string
		for _, c := range r.Cells {
			lines = append(lines, cardLabelStyle.Render(c.Header+":")+" "+c.Text)
		}
		style := cardStyle
		if ri == cursor {
			style = selectedCardStyle
		}
		if width > 8 {
			style = style.Width(width - 8)
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func countLine(shown, total int) string {
	return fmt.Sprintf("%d de %d", shown, total)
}
