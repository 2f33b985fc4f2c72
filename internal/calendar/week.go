// Package calendar lays out course meetings on a weekly grid and exports them
// as recurring iCalendar events.
package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/coursecal/internal/course"
)

// Column is one weekday column of the calendar grid.
type Column struct {
	ID      string
	Name    string
	Weekday time.Weekday
}

// Columns are the weekday columns shown by the calendar, Monday first.
var Columns = []Column{
	{ID: "m", Name: "Monday", Weekday: time.Monday},
	{ID: "t", Name: "Tuesday", Weekday: time.Tuesday},
	{ID: "w", Name: "Wednesday", Weekday: time.Wednesday},
	{ID: "th", Name: "Thursday", Weekday: time.Thursday},
	{ID: "f", Name: "Friday", Weekday: time.Friday},
}

// Block is one meeting placed on the calendar.
type Block struct {
	Course   string // e.g. "CS 225"
	Label    string
	Section  string
	Start    int // minutes after midnight
	End      int
	Location string
	Online   bool
}

// TimeRange renders the block's times, e.g. "9:30 AM - 10:45 AM".
func (b Block) TimeRange() string {
	if b.Start == 0 && b.End == 0 {
		return "arranged"
	}
	return FormatClock(b.Start) + " - " + FormatClock(b.End)
}

// Day is a calendar column with its blocks sorted by start time.
type Day struct {
	Column
	Blocks []Block
}

// Week is the weekly schedule of a set of courses.
type Week struct {
	Days []Day
	// Unscheduled holds online meetings and meetings without usable days or times.
	Unscheduled []Block
}

// Empty reports whether the week holds no meetings at all.
func (w *Week) Empty() bool {
	if len(w.Unscheduled) > 0 {
		return false
	}
	for _, d := range w.Days {
		if len(d.Blocks) > 0 {
			return false
		}
	}
	return true
}

// BuildWeek lays out every meeting of every section of courses on a weekly grid.
func BuildWeek(courses []course.Course) *Week {
	week := &Week{Days: make([]Day, len(Columns))}
	index := make(map[time.Weekday]int, len(Columns))
	for i, col := range Columns {
		week.Days[i] = Day{Column: col}
		index[col.Weekday] = i
	}

	for i := range courses {
		crs := &courses[i]
		for _, section := range crs.Sections {
			for _, meeting := range section.Meetings {
				block := Block{
					Course:   crs.Name(),
					Label:    crs.Label,
					Section:  sectionName(section),
					Location: Location(meeting),
					Online:   meeting.IsOnline,
				}

				sched, ok := schedule(meeting)
				if !ok || meeting.IsOnline {
					week.Unscheduled = append(week.Unscheduled, block)
					continue
				}
				block.Start, block.End = sched.start, sched.end

				placed := false
				for _, day := range sched.days {
					if col, ok := index[day]; ok {
						week.Days[col].Blocks = append(week.Days[col].Blocks, block)
						placed = true
					}
				}
				if !placed {
					week.Unscheduled = append(week.Unscheduled, block)
				}
			}
		}
	}

	for i := range week.Days {
		blocks := week.Days[i].Blocks
		sort.SliceStable(blocks, func(a, b int) bool {
			if blocks[a].Start != blocks[b].Start {
				return blocks[a].Start < blocks[b].Start
			}
			return blocks[a].Course < blocks[b].Course
		})
	}

	return week
}

// Location joins a meeting's room and building, e.g. "1002 Electrical & Computer Eng Bldg".
func Location(m course.Meeting) string {
	if m.IsOnline {
		return "Online"
	}
	return strings.TrimSpace(m.RoomNumber + " " + m.BuildingName)
}

type slot struct {
	days       []time.Weekday
	start, end int
}

// schedule extracts the weekly slot of a meeting; ok is false for arranged meetings.
func schedule(m course.Meeting) (slot, bool) {
	days, err := ParseDays(m.DaysOfWeek)
	if err != nil || len(days) == 0 {
		return slot{}, false
	}
	start, err := ParseClock(m.Start)
	if err != nil {
		return slot{}, false
	}
	end, err := ParseClock(m.End)
	if err != nil || end <= start {
		return slot{}, false
	}
	return slot{days: days, start: start, end: end}, true
}

func sectionName(s course.Section) string {
	if s.SectionCode != "" {
		return s.SectionCode
	}
	return s.SectionNumber
}
