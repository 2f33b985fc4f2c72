package explorer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/coursecal/internal/course"
)

type courseDoc struct {
	Label       string `xml:"label"`
	Description string `xml:"description"`
	CreditHours string `xml:"creditHours"`
	Sections    []struct {
		ID   string `xml:"id,attr"`
		Code string `xml:",chardata"`
	} `xml:"sections>section"`
}

type sectionDoc struct {
	SectionNumber     string       `xml:"sectionNumber"`
	StatusCode        string       `xml:"statusCode"`
	PartOfTerm        string       `xml:"partOfTerm"`
	SectionStatusCode string       `xml:"sectionStatusCode"`
	EnrollmentStatus  string       `xml:"enrollmentStatus"`
	Meetings          []meetingDoc `xml:"meetings>meeting"`
}

type meetingDoc struct {
	Type struct {
		Code string `xml:"code,attr"`
		Name string `xml:",chardata"`
	} `xml:"type"`
	Start        string `xml:"start"`
	End          string `xml:"end"`
	DaysOfWeek   string `xml:"daysOfTheWeek"`
	RoomNumber   string `xml:"roomNumber"`
	BuildingName string `xml:"buildingName"`
}

// Meeting type codes Course Explorer uses for online instruction
var onlineTypes = map[string]bool{
	"ONL": true,
	"OLC": true,
	"OLB": true,
	"OD":  true,
}

var creditHoursPattern = regexp.MustCompile(`^\s*(\d+)`)

// parseCourse decodes a course document and returns the course plus its section IDs.
func parseCourse(data []byte, subject, number string) (*course.Course, []string, error) {
	var doc courseDoc
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decoding XML: %w", err)
	}

	crs := course.NewCourse(subject, number)
	crs.Label = strings.TrimSpace(doc.Label)
	crs.Description = flattenHTML(doc.Description)
	crs.CreditHours = parseCreditHours(doc.CreditHours)

	ids := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	return crs, ids, nil
}

// parseSection decodes a section document.
func parseSection(data []byte, sectionID string) (course.Section, error) {
	var doc sectionDoc
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return course.Section{}, fmt.Errorf("decoding XML: %w", err)
	}

	section := course.NewSection(sectionID)
	section.SectionCode = strings.TrimSpace(doc.SectionNumber)
	section.StatusCode = strings.TrimSpace(doc.StatusCode)
	section.PartOfTerm = strings.TrimSpace(doc.PartOfTerm)
	section.SectionStatusCode = strings.TrimSpace(doc.SectionStatusCode)
	section.EnrollmentStatus = strings.TrimSpace(doc.EnrollmentStatus)

	for _, m := range doc.Meetings {
		meeting := course.NewMeeting()
		meeting.Type = strings.TrimSpace(m.Type.Name)
		meeting.Start = strings.TrimSpace(m.Start)
		meeting.End = strings.TrimSpace(m.End)
		meeting.DaysOfWeek = strings.TrimSpace(m.DaysOfWeek)
		meeting.RoomNumber = strings.TrimSpace(m.RoomNumber)
		meeting.BuildingName = strings.TrimSpace(m.BuildingName)
		meeting.IsOnline = isOnline(strings.TrimSpace(m.Type.Code), meeting.BuildingName)
		section.Meetings = append(section.Meetings, meeting)
	}

	return section, nil
}

func isOnline(typeCode, building string) bool {
	if onlineTypes[strings.ToUpper(typeCode)] {
		return true
	}
	return building == "" || strings.EqualFold(building, "online")
}

// parseCreditHours takes the leading integer of text like "4 hours." or "1 TO 4 hours."
func parseCreditHours(text string) int {
	m := creditHoursPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// flattenHTML strips inline markup (descriptions embed prerequisite links) and
// collapses whitespace.
func flattenHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
