// Package filter narrows search results down to the sections a student can take.
//
// A filter can require sections to be open for enrollment, online or in person,
// and to meet only on a given set of weekdays. Keywords match the course label.
//
// Example usage:
//
//	// Open sections that meet on Monday, Wednesday and Friday only
//	f, err := filter.Parse("open,days=MWF")
//	if err != nil {
//		return err
//	}
//
//	// Apply filter to a search result
//	courses = f.Apply(courses)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/coursecal/internal/calendar"
	"github.com/pfrederiksen/coursecal/internal/course"
)

// Filter represents section filtering criteria
type Filter struct {
	// Only sections whose enrollment status is open
	OpenOnly bool `json:"open_only,omitempty" yaml:"open_only,omitempty"`

	// Only sections with at least one online meeting
	OnlineOnly bool `json:"online_only,omitempty" yaml:"online_only,omitempty"`

	// Only sections where every meeting is in person
	InPersonOnly bool `json:"in_person_only,omitempty" yaml:"in_person_only,omitempty"`

	// Scheduled meetings must fall on these days only
	Days []time.Weekday `json:"days,omitempty" yaml:"days,omitempty"`

	// Course label filtering (case-insensitive substring match)
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return !f.OpenOnly &&
		!f.OnlineOnly &&
		!f.InPersonOnly &&
		len(f.Days) == 0 &&
		len(f.Keywords) == 0
}

// Matches checks if a section passes all section-level criteria.
// An empty filter matches all sections.
//
// Matching logic:
//   - OpenOnly: the section's enrollment status must be open
//   - OnlineOnly: at least one meeting must be online
//   - InPersonOnly: no meeting may be online
//   - Days: every scheduled in-person meeting must meet only on the given days;
//     arranged meetings are not constrained
func (f *Filter) Matches(section *course.Section) bool {
	if f.OpenOnly && !section.IsOpen() {
		return false
	}

	online := false
	for _, m := range section.Meetings {
		if m.IsOnline {
			online = true
			break
		}
	}
	if f.OnlineOnly && !online {
		return false
	}
	if f.InPersonOnly && online {
		return false
	}

	if len(f.Days) > 0 {
		allowed := make(map[time.Weekday]bool, len(f.Days))
		for _, d := range f.Days {
			allowed[d] = true
		}
		for _, m := range section.Meetings {
			if m.IsOnline {
				continue
			}
			days, err := calendar.ParseDays(m.DaysOfWeek)
			if err != nil {
				return false
			}
			for _, d := range days {
				if !allowed[d] {
					return false
				}
			}
		}
	}

	return true
}

// matchesLabel checks the course label against Keywords.
func (f *Filter) matchesLabel(c *course.Course) bool {
	if len(f.Keywords) == 0 {
		return true
	}
	label := strings.ToLower(c.Label)
	for _, kw := range f.Keywords {
		if strings.Contains(label, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Apply returns the courses with non-matching sections removed. Courses left
// without sections are dropped. The input slice is not modified. The result is
// never nil.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(courses []course.Course) []course.Course {
	if f.IsEmpty() {
		return courses
	}

	filtered := []course.Course{}
	for i := range courses {
		crs := courses[i]
		if !f.matchesLabel(&crs) {
			continue
		}

		var sections []course.Section
		for j := range crs.Sections {
			if f.Matches(&crs.Sections[j]) {
				sections = append(sections, crs.Sections[j])
			}
		}
		if len(sections) == 0 {
			continue
		}

		crs.Sections = sections
		filtered = append(filtered, crs)
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Open only | Days: MWF | Keywords: data"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.OpenOnly {
		parts = append(parts, "Open only")
	}

	if f.OnlineOnly {
		parts = append(parts, "Online only")
	}

	if f.InPersonOnly {
		parts = append(parts, "In person only")
	}

	if len(f.Days) > 0 {
		parts = append(parts, fmt.Sprintf("Days: %s", FormatDays(f.Days)))
	}

	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}

	return strings.Join(parts, " | ")
}

// FormatDays renders weekdays with the Course Explorer letters, e.g. "MWF".
func FormatDays(days []time.Weekday) string {
	letters := map[time.Weekday]string{
		time.Monday:    "M",
		time.Tuesday:   "T",
		time.Wednesday: "W",
		time.Thursday:  "R",
		time.Friday:    "F",
		time.Saturday:  "S",
		time.Sunday:    "U",
	}

	var b strings.Builder
	for _, d := range days {
		b.WriteString(letters[d])
	}
	return b.String()
}
