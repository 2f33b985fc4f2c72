// Package course provides the course, section and meeting records returned by a
// course search, plus helpers for course-number ranges.
package course

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Course is one offering of a subject/number in a term.
type Course struct {
	ID           string    `json:"id" yaml:"id"`
	SubjectCode  string    `json:"subjectCode" yaml:"subject_code"`
	CourseNumber string    `json:"courseNumber" yaml:"course_number"`
	Label        string    `json:"label" yaml:"label"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreditHours  int       `json:"creditHours,omitempty" yaml:"credit_hours,omitempty"`
	Sections     []Section `json:"sections" yaml:"sections"`
}

// Section is a single schedulable section of a course (lecture, lab, discussion...).
type Section struct {
	ID                string    `json:"id" yaml:"id"`
	SectionNumber     string    `json:"sectionNumber" yaml:"section_number"` // Course Explorer CRN
	SectionCode       string    `json:"sectionCode,omitempty" yaml:"section_code,omitempty"`
	StatusCode        string    `json:"statusCode,omitempty" yaml:"status_code,omitempty"`
	PartOfTerm        string    `json:"partOfTerm,omitempty" yaml:"part_of_term,omitempty"`
	SectionStatusCode string    `json:"sectionStatusCode,omitempty" yaml:"section_status_code,omitempty"`
	EnrollmentStatus  string    `json:"enrollmentStatus" yaml:"enrollment_status"`
	Meetings          []Meeting `json:"meetings" yaml:"meetings"`
}

// Meeting is a recurring weekly meeting of a section.
type Meeting struct {
	ID           string `json:"id" yaml:"id"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	IsOnline     bool   `json:"isOnline" yaml:"is_online"`
	Start        string `json:"start" yaml:"start"`
	End          string `json:"end" yaml:"end"`
	DaysOfWeek   string `json:"daysOfWeek" yaml:"days_of_week"`
	RoomNumber   string `json:"roomNumber" yaml:"room_number"`
	BuildingName string `json:"buildingName" yaml:"building_name"`
}

// NewCourse creates a Course with a fresh ID.
func NewCourse(subjectCode, courseNumber string) *Course {
	return &Course{
		ID:           uuid.NewString(),
		SubjectCode:  subjectCode,
		CourseNumber: courseNumber,
		Sections:     []Section{},
	}
}

// NewSection creates a Section with a fresh ID.
func NewSection(sectionNumber string) Section {
	return Section{
		ID:            uuid.NewString(),
		SectionNumber: sectionNumber,
		Meetings:      []Meeting{},
	}
}

// NewMeeting creates a Meeting with a fresh ID.
func NewMeeting() Meeting {
	return Meeting{ID: uuid.NewString()}
}

// Name returns the short course name, e.g. "CS 225". Search responses only carry
// the label, in which case the label is returned.
func (c *Course) Name() string {
	if c.SubjectCode == "" && c.CourseNumber == "" {
		return c.Label
	}
	return fmt.Sprintf("%s %s", c.SubjectCode, c.CourseNumber)
}

// IsOpen reports whether the section still accepts enrollment.
func (s *Section) IsOpen() bool {
	return strings.HasPrefix(s.EnrollmentStatus, "Open") || s.EnrollmentStatus == "CrossListOpen"
}

var (
	bucketPattern = regexp.MustCompile(`^[1-9]xx$`)
	exactPattern  = regexp.MustCompile(`^[1-9]\d{2}$`)
)

// IsBucket reports whether number is a course-number range such as "1xx".
func IsBucket(number string) bool {
	return bucketPattern.MatchString(number)
}

// Level returns the hundreds level of a course number or bucket ("3xx" -> 300).
func Level(number string) (int, error) {
	if !IsBucket(number) && !exactPattern.MatchString(number) {
		return 0, fmt.Errorf("invalid course number: %q", number)
	}
	return int(number[0]-'0') * 100, nil
}

// ExpandNumber lists the course numbers a search for number covers.
// A bucket "Nxx" expands to N00..N99; an exact number expands to itself.
func ExpandNumber(number string) ([]string, error) {
	if exactPattern.MatchString(number) {
		return []string{number}, nil
	}

	level, err := Level(number)
	if err != nil {
		return nil, err
	}

	numbers := make([]string, 0, 100)
	for n := level; n < level+100; n++ {
		numbers = append(numbers, strconv.Itoa(n))
	}
	return numbers, nil
}
