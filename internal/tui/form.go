package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/coursecal/internal/search"
)

type field int

const (
	fieldYear field = iota
	fieldSemester
	fieldSubject
	fieldNumber
	fieldSubmit
	fieldCount
)

// SubmitMsg is emitted by the form when validated criteria are ready to search.
type SubmitMsg struct {
	Criteria search.Criteria
}

// selector is a fixed list of choices cycled with left/right.
type selector struct {
	values []string
	labels []string
	index  int
}

func newSelector(values []string, labels []string, current string) selector {
	s := selector{values: values, labels: labels}
	for i, v := range values {
		if v == current {
			s.index = i
		}
	}
	return s
}

func (s *selector) next() { s.index = (s.index + 1) % len(s.values) }
func (s *selector) prev() { s.index = (s.index - 1 + len(s.values)) % len(s.values) }

func (s selector) value() string { return s.values[s.index] }

func (s selector) view(focused bool) string {
	parts := make([]string, len(s.labels))
	for i, label := range s.labels {
		if i == s.index {
			style := activeOptionStyle
			if !focused {
				style = style.Foreground(lipgloss.Color("252"))
			}
			parts[i] = style.Render("[" + label + "]")
		} else {
			parts[i] = inactiveOptionStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Form is the search form widget. Every input updates only its own field.
type Form struct {
	year     textinput.Model
	semester selector
	subject  textinput.Model
	number   selector

	focus field
	err   string
}

// NewForm creates a form populated with initial.
func NewForm(initial search.Criteria) Form {
	year := textinput.New()
	year.Prompt = ""
	year.Placeholder = "2023"
	year.CharLimit = 4
	year.Width = 6
	year.SetValue(initial.Year)
	year.Focus()

	subject := textinput.New()
	subject.Prompt = ""
	subject.Placeholder = "CS"
	subject.CharLimit = 8
	subject.Width = 8
	subject.SetValue(initial.Subject)

	semesterLabels := make([]string, len(search.Semesters))
	for i, s := range search.Semesters {
		semesterLabels[i] = capitalize(s)
	}

	numberLabels := make([]string, len(search.NumberRanges))
	for i, n := range search.NumberRanges {
		numberLabels[i] = strings.ReplaceAll(n, "x", "-")
	}

	return Form{
		year:     year,
		semester: newSelector(search.Semesters, semesterLabels, initial.Semester),
		subject:  subject,
		number:   newSelector(search.NumberRanges, numberLabels, initial.Number),
		focus:    fieldYear,
	}
}

// Criteria returns the raw, unvalidated form state.
func (f Form) Criteria() search.Criteria {
	return search.Criteria{
		Semester: f.semester.value(),
		Year:     f.year.Value(),
		Subject:  f.subject.Value(),
		Number:   f.number.value(),
	}
}

// Err returns the inline validation message, if any.
func (f Form) Err() string {
	return f.err
}

// Update handles a message for the form.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateInputs(msg)
	}

	switch key.String() {
	case "tab", "down":
		return f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return f.setFocus((f.focus - 1 + fieldCount) % fieldCount)
	case "enter":
		return f.submit()
	case "left", "right":
		switch f.focus {
		case fieldSemester:
			if key.String() == "left" {
				f.semester.prev()
			} else {
				f.semester.next()
			}
			return f, nil
		case fieldNumber:
			if key.String() == "left" {
				f.number.prev()
			} else {
				f.number.next()
			}
			return f, nil
		}
	}

	return f.updateInputs(msg)
}

// updateInputs routes msg to the focused text input only.
func (f Form) updateInputs(msg tea.Msg) (Form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldYear:
		f.year, cmd = f.year.Update(msg)
	case fieldSubject:
		f.subject, cmd = f.subject.Update(msg)
	}
	return f, cmd
}

func (f Form) setFocus(next field) (Form, tea.Cmd) {
	f.focus = next
	f.year.Blur()
	f.subject.Blur()

	switch next {
	case fieldYear:
		return f, f.year.Focus()
	case fieldSubject:
		return f, f.subject.Focus()
	}
	return f, nil
}

// submit validates the form; a rejection only sets the inline error.
func (f Form) submit() (Form, tea.Cmd) {
	criteria, err := search.Validate(f.Criteria())
	if err != nil {
		f.err = strings.TrimPrefix(err.Error(), search.ErrInvalidCriteria.Error()+": ")
		return f, nil
	}

	f.err = ""
	f.year.SetValue(criteria.Year)
	f.subject.SetValue(criteria.Subject)
	return f, func() tea.Msg { return SubmitMsg{Criteria: criteria} }
}

// View renders the form.
func (f Form) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Course Search"))
	b.WriteString("\n\n")

	b.WriteString(f.label("Year", fieldYear))
	b.WriteString(f.year.View())
	b.WriteString("\n\n")

	b.WriteString(f.label("Semester", fieldSemester))
	b.WriteString(f.semester.view(f.focus == fieldSemester))
	b.WriteString("\n\n")

	b.WriteString(f.label("Subject", fieldSubject))
	b.WriteString(f.subject.View())
	b.WriteString("\n\n")

	b.WriteString(f.label("Number", fieldNumber))
	b.WriteString(f.number.view(f.focus == fieldNumber))
	b.WriteString("\n\n")

	button := blurredStyle.Render("[ Search ]")
	if f.focus == fieldSubmit {
		button = focusedStyle.Render("[ Search ]")
	}
	b.WriteString(button)

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(f.err))
	}

	return b.String()
}

func (f Form) label(name string, which field) string {
	style := noStyle
	if f.focus == which {
		style = focusedStyle
	}
	return style.Width(10).Render(name)
}
