package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/coursecal/internal/course"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByNumber SortOrder = "number"
	SortByLabel  SortOrder = "label"
)

// sortCourses sorts a slice of courses based on the specified sort order
func sortCourses(courses []course.Course, sortOrder SortOrder) {
	switch sortOrder {
	case SortByNumber:
		sort.SliceStable(courses, func(i, j int) bool {
			return compareByNumber(&courses[i], &courses[j])
		})
	case SortByLabel:
		sort.SliceStable(courses, func(i, j int) bool {
			li, lj := strings.ToLower(courses[i].Label), strings.ToLower(courses[j].Label)
			if li != lj {
				return li < lj
			}
			// If labels are equal, sort by number
			return compareByNumber(&courses[i], &courses[j])
		})
	}
}

// compareByNumber orders courses by subject, then course number. Search responses
// carry neither, so they compare equal and the stable sort keeps the backend's
// ascending number order.
func compareByNumber(i, j *course.Course) bool {
	if i.SubjectCode != j.SubjectCode {
		return i.SubjectCode < j.SubjectCode
	}
	// Course numbers are three digits, so string order is numeric order
	return i.CourseNumber < j.CourseNumber
}
