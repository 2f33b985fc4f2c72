package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/coursecal/internal/calendar"
)

const minColumnWidth = 16

// WeekView is the calendar widget: one column per weekday.
type WeekView struct {
	week  *calendar.Week
	title string
	width int
}

// NewWeekView creates an empty calendar widget.
func NewWeekView() WeekView {
	return WeekView{week: calendar.BuildWeek(nil)}
}

// SetWeek replaces the schedule shown by the widget.
func (w *WeekView) SetWeek(week *calendar.Week, title string) {
	w.week = week
	w.title = title
}

// SetWidth sets the total width available to the widget.
func (w *WeekView) SetWidth(width int) {
	w.width = width
}

func (w WeekView) columnWidth() int {
	width := (w.width - 2) / len(calendar.Columns)
	if width < minColumnWidth {
		return minColumnWidth
	}
	return width
}

// View renders the week grid.
func (w WeekView) View() string {
	title := w.title
	if title == "" {
		title = "Calendar"
	}

	if w.week == nil || w.week.Empty() {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(title),
			"",
			helpStyle.Render("No courses yet. Fill in the form and press enter."),
		)
	}

	colWidth := w.columnWidth()
	columns := make([]string, 0, len(w.week.Days))
	for _, day := range w.week.Days {
		cells := []string{dayHeaderStyle.Width(colWidth).Render(day.Name)}
		for _, block := range day.Blocks {
			cells = append(cells, renderBlock(block, colWidth))
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}

	parts := []string{
		titleStyle.Render(title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	}

	if len(w.week.Unscheduled) > 0 {
		var b strings.Builder
		b.WriteString("Online / arranged:")
		for _, block := range w.week.Unscheduled {
			fmt.Fprintf(&b, "\n  %s %s  %s", block.Course, block.Section, block.Location)
		}
		parts = append(parts, "", helpStyle.Render(b.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderBlock(b calendar.Block, width int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(b.Course + " " + b.Section),
		b.TimeRange(),
	}
	if b.Location != "" {
		lines = append(lines, b.Location)
	}
	// Width excludes the border
	return blockStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}
