package explorer

import (
	"os"
	"testing"
)

func TestParseCourse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/course_cs225.xml")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	crs, ids, err := parseCourse(data, "CS", "225")
	if err != nil {
		t.Fatalf("parseCourse failed: %v", err)
	}

	wantDesc := "Data abstractions: elementary data structures, trees, and graphs. Prerequisite: CS 128."
	if crs.Description != wantDesc {
		t.Errorf("Description = %q, want %q", crs.Description, wantDesc)
	}
	if crs.SubjectCode != "CS" || crs.CourseNumber != "225" {
		t.Errorf("course = %s %s", crs.SubjectCode, crs.CourseNumber)
	}
	if len(ids) != 2 || ids[0] != "35917" || ids[1] != "35918" {
		t.Errorf("section ids = %v, want [35917 35918]", ids)
	}
}

func TestParseCourse_Malformed(t *testing.T) {
	if _, _, err := parseCourse([]byte("<course><label>"), "CS", "225"); err == nil {
		t.Error("parseCourse() expected error for truncated XML")
	}
}

func TestParseSection(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/section_35918.xml")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	section, err := parseSection(data, "35918")
	if err != nil {
		t.Fatalf("parseSection failed: %v", err)
	}

	if section.EnrollmentStatus != "Closed" {
		t.Errorf("EnrollmentStatus = %q, want Closed", section.EnrollmentStatus)
	}
	if len(section.Meetings) != 1 {
		t.Fatalf("len(Meetings) = %d, want 1", len(section.Meetings))
	}
	m := section.Meetings[0]
	if m.Type != "Online" || !m.IsOnline || m.Start != "ARRANGED" || m.DaysOfWeek != "" {
		t.Errorf("meeting = %+v", m)
	}
}

func TestParseCreditHours(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"4 hours.", 4},
		{"3 undergraduate hours. 4 graduate hours.", 3},
		{"1 TO 4 hours.", 1},
		{"", 0},
		{"hours", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := parseCreditHours(tt.text); got != tt.want {
				t.Errorf("parseCreditHours(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain  text\n description", "Plain text description"},
		{`See <a href="/x">CS 128</a> first.`, "See CS 128 first."},
		{"Credit &amp; more", "Credit & more"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := flattenHTML(tt.in); got != tt.want {
			t.Errorf("flattenHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsOnline(t *testing.T) {
	tests := []struct {
		code, building string
		want           bool
	}{
		{"LEC", "Siebel Center for Comp Sci", false},
		{"ONL", "", true},
		{"olc", "Siebel Center for Comp Sci", true},
		{"LAB", "", true},
		{"LEC", "Online", true},
	}

	for _, tt := range tests {
		if got := isOnline(tt.code, tt.building); got != tt.want {
			t.Errorf("isOnline(%q, %q) = %v, want %v", tt.code, tt.building, got, tt.want)
		}
	}
}
