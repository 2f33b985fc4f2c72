package search

import (
	"encoding/json"
	"fmt"
)

// CourseInfoQuery is the GraphQL document sent for every search.
const CourseInfoQuery = `query CourseInfo($year: String!,
                  $semester: String!,
                  $subjectCode: String!,
                  $courseNumber: String!) {
  courseInfo(year: $year,
             semester: $semester,
             subjectCode: $subjectCode,
             courseNumber: $courseNumber) {
    label
    sections {
      sectionNumber
      enrollmentStatus
      meetings {
        isOnline
        start
        end
        daysOfWeek
        roomNumber
        buildingName
      }
    }
  }
}`

// Variables are the CourseInfo query parameters. Field order is the wire order.
type Variables struct {
	Year         string `json:"year"`
	Semester     string `json:"semester"`
	SubjectCode  string `json:"subjectCode"`
	CourseNumber string `json:"courseNumber"`
}

// Request is a GraphQL request body.
type Request struct {
	Query     string    `json:"query"`
	Variables Variables `json:"variables"`
}

// NewRequest builds the request for already validated criteria.
func NewRequest(c Criteria) Request {
	return Request{
		Query: CourseInfoQuery,
		Variables: Variables{
			Year:         c.Year,
			Semester:     c.Semester,
			SubjectCode:  c.Subject,
			CourseNumber: c.Number,
		},
	}
}

// BuildRequest validates c and serializes the request body.
func BuildRequest(c Criteria) ([]byte, error) {
	valid, err := Validate(c)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(NewRequest(valid))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return body, nil
}
