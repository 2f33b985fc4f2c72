package search

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidCriteria is returned when form input fails validation. No request is
// sent for rejected criteria.
var ErrInvalidCriteria = errors.New("invalid search criteria")

const (
	SemesterFall   = "fall"
	SemesterSpring = "spring"

	// MinYear is the earliest year that can be searched.
	MinYear = 2000
	// Two-digit years at or above the pivot are 20yy, below it 19yy.
	twoDigitPivot = 20
)

// Semesters lists the selectable semesters in form order.
var Semesters = []string{SemesterFall, SemesterSpring}

// NumberRanges lists the selectable course-number buckets in form order.
var NumberRanges = []string{"1xx", "2xx", "3xx", "4xx", "5xx"}

// Criteria is the search form state.
type Criteria struct {
	Semester string `json:"semester" yaml:"semester"`
	Year     string `json:"year" yaml:"year"`
	Subject  string `json:"subject" yaml:"subject"`
	Number   string `json:"number" yaml:"number"`
}

// DefaultCriteria returns the values the form starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Semester: SemesterFall,
		Year:     "2023",
		Subject:  "CS",
		Number:   "1xx",
	}
}

func (c Criteria) String() string {
	return fmt.Sprintf("%s %s %s %s", c.Semester, c.Year, c.Subject, c.Number)
}

var (
	yearPattern    = regexp.MustCompile(`^(\d{2}|\d{4})$`)
	subjectPattern = regexp.MustCompile(`^[a-zA-Z]+$`)
	numberPattern  = regexp.MustCompile(`^[1-5]xx$`)
)

// Validate sanitizes the criteria and returns the normalized copy:
//   - year: 2 or 4 digits, at least 2000 once expanded ("23" -> "2023")
//   - subject: at least two letters, upper-cased ("cs" -> "CS")
//   - semester and number: one of the form's choices
//
// Rejections wrap ErrInvalidCriteria.
func Validate(c Criteria) (Criteria, error) {
	year, err := normalizeYear(c.Year)
	if err != nil {
		return Criteria{}, err
	}

	subject, err := normalizeSubject(c.Subject)
	if err != nil {
		return Criteria{}, err
	}

	semester := strings.ToLower(strings.TrimSpace(c.Semester))
	if semester != SemesterFall && semester != SemesterSpring {
		return Criteria{}, fmt.Errorf("%w: semester %q must be fall or spring", ErrInvalidCriteria, c.Semester)
	}

	number := strings.ToLower(strings.TrimSpace(c.Number))
	if !numberPattern.MatchString(number) {
		return Criteria{}, fmt.Errorf("%w: course number %q must be one of %s",
			ErrInvalidCriteria, c.Number, strings.Join(NumberRanges, ", "))
	}

	return Criteria{
		Semester: semester,
		Year:     year,
		Subject:  subject,
		Number:   number,
	}, nil
}

func normalizeYear(raw string) (string, error) {
	year := strings.TrimSpace(raw)
	if !yearPattern.MatchString(year) {
		return "", fmt.Errorf("%w: year %q must be 2 or 4 digits", ErrInvalidCriteria, raw)
	}

	value, err := strconv.Atoi(year)
	if err != nil {
		return "", fmt.Errorf("%w: year %q: %v", ErrInvalidCriteria, raw, err)
	}
	if len(year) == 2 {
		if value >= twoDigitPivot {
			value += 2000
		} else {
			value += 1900
		}
	}

	if value < MinYear {
		return "", fmt.Errorf("%w: year %q is before %d", ErrInvalidCriteria, raw, MinYear)
	}
	return strconv.Itoa(value), nil
}

func normalizeSubject(raw string) (string, error) {
	subject := strings.TrimSpace(raw)
	if !subjectPattern.MatchString(subject) || len(subject) < 2 {
		return "", fmt.Errorf("%w: subject %q must be at least two letters", ErrInvalidCriteria, raw)
	}
	return strings.ToUpper(subject), nil
}
