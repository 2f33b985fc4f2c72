// Package tui is the interactive search screen: a search form next to a weekly
// calendar of the results.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/coursecal/internal/calendar"
	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/filter"
	"github.com/pfrederiksen/coursecal/internal/logger"
	"github.com/pfrederiksen/coursecal/internal/search"
)

const formWidth = 40

// Searcher runs a course search.
type Searcher interface {
	Search(ctx context.Context, criteria search.Criteria) ([]course.Course, error)
}

// ResultMsg carries the outcome of a search.
type ResultMsg struct {
	Criteria search.Criteria
	Courses  []course.Course
	Err      error
}

// App is the root model: the search form and the calendar side by side.
type App struct {
	form     Form
	week     WeekView
	searcher Searcher
	filter   *filter.Filter
	timeout  time.Duration

	loading  bool
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewApp creates the root model. f may be nil.
func NewApp(searcher Searcher, initial search.Criteria, f *filter.Filter, timeout time.Duration) App {
	if f == nil {
		f = filter.NewFilter()
	}
	return App{
		form:     NewForm(initial),
		week:     NewWeekView(),
		searcher: searcher,
		filter:   f,
		timeout:  timeout,
	}
}

func (m App) Init() tea.Cmd {
	return nil
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.week.SetWidth(msg.Width - formWidth - 8)
		return m, nil

	case SubmitMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		m.status = fmt.Sprintf("Searching %s...", msg.Criteria)
		return m, m.searchCmd(msg.Criteria)

	case ResultMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
			return m, nil
		}
		courses := m.filter.Apply(msg.Courses)
		title := fmt.Sprintf("%s %s %s %s", msg.Criteria.Subject, msg.Criteria.Number,
			capitalize(msg.Criteria.Semester), msg.Criteria.Year)
		m.week.SetWeek(calendar.BuildWeek(courses), title)
		m.status = fmt.Sprintf("Found %d courses", len(courses))
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// searchCmd runs one search off the UI goroutine.
func (m App) searchCmd(criteria search.Criteria) tea.Cmd {
	searcher, timeout := m.searcher, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		courses, err := searcher.Search(ctx, criteria)
		logger.RecordTiming("tui.search", time.Since(start))
		if err != nil {
			logger.Error("Search failed", logger.Fields{"criteria": criteria.String()}, err)
		}
		return ResultMsg{Criteria: criteria, Courses: courses, Err: err}
	}
}

func (m App) View() string {
	if m.quitting {
		return ""
	}

	left := panelStyle.Width(formWidth).Render(m.form.View())
	right := panelStyle.Render(m.week.View())

	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	help := helpStyle.Render("tab: next field • ←/→: change choice • enter: search • esc: quit")

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		status,
		help,
	))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Run starts the interactive program and blocks until the user quits.
func Run(searcher Searcher, initial search.Criteria, f *filter.Filter, timeout time.Duration) error {
	p := tea.NewProgram(NewApp(searcher, initial, f, timeout), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
