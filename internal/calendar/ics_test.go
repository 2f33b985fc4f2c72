package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/coursecal/internal/course"
)

func testCourses() []course.Course {
	cs225 := course.NewCourse("CS", "225")
	cs225.Label = "Data Structures"

	lecture := course.NewSection("35917")
	lecture.SectionCode = "AL1"
	lecture.EnrollmentStatus = "Open"
	m := course.NewMeeting()
	m.ID = "meeting-225"
	m.Type = "LEC"
	m.Start, m.End, m.DaysOfWeek = "09:30 AM", "10:45 AM", "TR"
	m.RoomNumber, m.BuildingName = "1002", "Electrical & Computer Eng Bldg"
	lecture.Meetings = append(lecture.Meetings, m)

	online := course.NewSection("35918")
	online.SectionCode = "ONL"
	o := course.NewMeeting()
	o.IsOnline = true
	o.Start = "ARRANGED"
	online.Meetings = append(online.Meetings, o)

	cs225.Sections = append(cs225.Sections, lecture, online)

	cs124 := course.NewCourse("CS", "124")
	cs124.Label = "Introduction to Computer Science I"
	sec := course.NewSection("12345")
	sec.SectionCode = "AL1"
	mwf := course.NewMeeting()
	mwf.ID = "meeting-124"
	mwf.Start, mwf.End, mwf.DaysOfWeek = "11:00 AM", "11:50 AM", "MWF"
	mwf.RoomNumber, mwf.BuildingName = "1002", "Lincoln Hall"
	sec.Meetings = append(sec.Meetings, mwf)
	cs124.Sections = append(cs124.Sections, sec)

	return []course.Course{*cs225, *cs124}
}

func TestGenerateICS(t *testing.T) {
	termStart := time.Date(2023, time.August, 21, 0, 0, 0, 0, time.UTC) // a Monday

	ics := GenerateICS(testCourses(), termStart, 15)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//coursecal//coursecal//EN",
		"X-WR-CALNAME:CS 225\\, CS 124",
		"UID:meeting-225@coursecal",
		"DTSTART:20230822T093000",
		"DTEND:20230822T104500",
		"RRULE:FREQ=WEEKLY;COUNT=30;BYDAY=TU,TH",
		"SUMMARY:CS 225 AL1 (LEC)",
		"DESCRIPTION:Data Structures\\nCRN 35917\\nEnrollment: Open",
		"LOCATION:1002 Electrical & Computer Eng Bldg",
		"UID:meeting-124@coursecal",
		"DTSTART:20230821T110000",
		"RRULE:FREQ=WEEKLY;COUNT=45;BYDAY=MO,WE,FR",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing field: %s", field)
		}
	}

	// The online section has no slot on the calendar
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 VEVENT, got %d", got)
	}

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		if strings.Contains(line, "\n") {
			t.Fatalf("line not CRLF terminated: %q", line)
		}
		if len(line) > 75 {
			t.Errorf("line longer than 75 octets: %q", line)
		}
	}
}

func TestGenerateICS_DefaultWeeks(t *testing.T) {
	termStart := time.Date(2023, time.August, 21, 0, 0, 0, 0, time.UTC)

	ics := GenerateICS(testCourses(), termStart, 0)

	if !strings.Contains(ics, "COUNT=30;BYDAY=TU,TH") {
		t.Error("weeks <= 0 should fall back to DefaultWeeks")
	}
}

func TestGenerateICS_NothingScheduled(t *testing.T) {
	courses := testCourses()
	courses[0].Sections = courses[0].Sections[1:] // online only
	courses = courses[:1]

	if ics := GenerateICS(courses, time.Now(), 15); ics != "" {
		t.Errorf("expected empty calendar, got %q", ics)
	}
	if ics := GenerateICS(nil, time.Now(), 15); ics != "" {
		t.Error("no courses should return empty string")
	}
}

func TestTermStart(t *testing.T) {
	fall, err := TermStart(2023, "fall")
	if err != nil {
		t.Fatal(err)
	}
	if fall.Month() != time.August || fall.Day() != 21 || fall.Year() != 2023 {
		t.Errorf("fall term start = %v", fall)
	}

	spring, err := TermStart(2024, "Spring")
	if err != nil {
		t.Fatal(err)
	}
	if spring.Month() != time.January || spring.Day() != 16 {
		t.Errorf("spring term start = %v", spring)
	}

	if _, err := TermStart(2024, "summer"); err == nil {
		t.Error("expected error for unknown semester")
	}
}

func TestFirstOccurrence(t *testing.T) {
	start := time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC) // a Tuesday

	tests := []struct {
		days []time.Weekday
		want int
	}{
		{[]time.Weekday{time.Tuesday, time.Thursday}, 16},
		{[]time.Weekday{time.Monday, time.Wednesday, time.Friday}, 17},
		{[]time.Weekday{time.Monday}, 22},
	}
	for _, tt := range tests {
		if got := firstOccurrence(start, tt.days); got.Day() != tt.want {
			t.Errorf("firstOccurrence(%v) = %v, want day %d", tt.days, got, tt.want)
		}
	}
}

func TestFormatICSTime(t *testing.T) {
	testTime := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	if got := formatICSTime(testTime); got != "20260315T143000Z" {
		t.Errorf("formatICSTime() = %q", got)
	}
	if got := formatLocalTime(testTime); got != "20260315T143000" {
		t.Errorf("formatLocalTime() = %q", got)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text with, comma", "Text with\\, comma"},
		{"Text with; semicolon", "Text with\\; semicolon"},
		{"Text with\\backslash", "Text with\\\\backslash"},
		{"Text with\nnewline", "Text with\\nnewline"},
		{"All, special; chars\\\n", "All\\, special\\; chars\\\\\\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeICS(tt.input)
			if got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWriteLine_Folding(t *testing.T) {
	var b strings.Builder
	writeLine(&b, "DESCRIPTION:"+strings.Repeat("é", 60))

	out := b.String()
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(lines) < 2 {
		t.Fatalf("expected folded output, got %q", out)
	}
	for i, line := range lines {
		if len(line) > 75 {
			t.Errorf("line %d is %d octets", i, len(line))
		}
		if i > 0 && !strings.HasPrefix(line, " ") {
			t.Errorf("continuation line %d should start with a space", i)
		}
	}

	unfolded := strings.ReplaceAll(strings.TrimSuffix(out, "\r\n"), "\r\n ", "")
	if unfolded != "DESCRIPTION:"+strings.Repeat("é", 60) {
		t.Error("unfolding should restore the original line")
	}
}

func TestMeetingUID_Fallback(t *testing.T) {
	crs := &course.Course{Label: "Data Structures"}
	section := course.Section{SectionNumber: "35917"}
	m := course.Meeting{Start: "09:30 AM", End: "10:45 AM", DaysOfWeek: "TR"}

	first := meetingUID(crs, section, m)
	if first == "" || first != meetingUID(crs, section, m) {
		t.Errorf("fallback UID should be stable, got %q", first)
	}

	m.DaysOfWeek = "MW"
	if meetingUID(crs, section, m) == first {
		t.Error("different meetings should get different UIDs")
	}

	m.ID = "given"
	if got := meetingUID(crs, section, m); got != "given" {
		t.Errorf("meetingUID() = %q, want the meeting ID", got)
	}
}
