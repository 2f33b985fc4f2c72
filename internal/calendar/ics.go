package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/coursecal/internal/course"
)

// DefaultWeeks is the number of weeks a meeting repeats when none is given.
const DefaultWeeks = 15

var icsDays = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// TermStart returns the first day of instruction used for a semester.
func TermStart(year int, semester string) (time.Time, error) {
	switch strings.ToLower(semester) {
	case "fall":
		return time.Date(year, time.August, 21, 0, 0, 0, 0, time.Local), nil
	case "spring":
		return time.Date(year, time.January, 16, 0, 0, 0, 0, time.Local), nil
	default:
		return time.Time{}, fmt.Errorf("unknown semester %q", semester)
	}
}

// GenerateICS generates an iCalendar (.ics) file with one weekly recurring event per
// scheduled meeting. Online and arranged meetings are skipped. Returns "" when there
// is nothing to schedule.
func GenerateICS(courses []course.Course, termStart time.Time, weeks int) string {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}

	var events strings.Builder
	count := 0
	now := time.Now().UTC()

	for i := range courses {
		crs := &courses[i]
		for _, section := range crs.Sections {
			for _, meeting := range section.Meetings {
				sched, ok := schedule(meeting)
				if !ok || meeting.IsOnline {
					continue
				}
				writeEvent(&events, crs, section, meeting, sched, termStart, weeks, now)
				count++
			}
		}
	}

	if count == 0 {
		return ""
	}

	var ics strings.Builder
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//coursecal//coursecal//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS(calendarName(courses)))
	ics.WriteString(events.String())
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, crs *course.Course, section course.Section, meeting course.Meeting, sched slot, termStart time.Time, weeks int, now time.Time) {
	first := firstOccurrence(termStart, sched.days)
	start := first.Add(time.Duration(sched.start) * time.Minute)
	end := first.Add(time.Duration(sched.end) * time.Minute)

	byDay := make([]string, 0, len(sched.days))
	for _, d := range sched.days {
		byDay = append(byDay, icsDays[d])
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@coursecal\r\n", meetingUID(crs, section, meeting))
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(now))

	// Floating local times; the campus time zone applies
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatLocalTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatLocalTime(end))
	fmt.Fprintf(ics, "RRULE:FREQ=WEEKLY;COUNT=%d;BYDAY=%s\r\n", weeks*len(sched.days), strings.Join(byDay, ","))

	summary := fmt.Sprintf("%s %s", crs.Name(), sectionName(section))
	if meeting.Type != "" {
		summary += " (" + meeting.Type + ")"
	}
	writeLine(ics, "SUMMARY:"+escapeICS(summary))

	description := crs.Label
	if section.SectionNumber != "" {
		description += fmt.Sprintf("\nCRN %s", section.SectionNumber)
	}
	if section.EnrollmentStatus != "" {
		description += fmt.Sprintf("\nEnrollment: %s", section.EnrollmentStatus)
	}
	writeLine(ics, "DESCRIPTION:"+escapeICS(description))

	if loc := Location(meeting); loc != "" {
		writeLine(ics, "LOCATION:"+escapeICS(loc))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// meetingUID returns the meeting ID, or a stable ID derived from the meeting when the
// search response did not include one.
func meetingUID(crs *course.Course, section course.Section, m course.Meeting) string {
	if m.ID != "" {
		return m.ID
	}
	key := strings.Join([]string{crs.Name(), section.SectionNumber, m.DaysOfWeek, m.Start, m.End}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// firstOccurrence returns the first day on or after termStart that falls on one of days.
func firstOccurrence(termStart time.Time, days []time.Weekday) time.Time {
	day := time.Date(termStart.Year(), termStart.Month(), termStart.Day(), 0, 0, 0, 0, termStart.Location())
	for i := 0; i < 7; i++ {
		for _, d := range days {
			if day.Weekday() == d {
				return day
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func calendarName(courses []course.Course) string {
	names := make([]string, 0, len(courses))
	for i := range courses {
		names = append(names, courses[i].Name())
	}
	return strings.Join(names, ", ")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats a time.Time as an iCalendar floating datetime string
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes a content line folded at 75 octets (RFC 5545 section 3.1).
func writeLine(ics *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		// Don't split a UTF-8 sequence
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		limit = 74
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}
