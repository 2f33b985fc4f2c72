package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/coursecal/internal/calendar"
	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/search"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputResult contains data to be output
type OutputResult struct {
	SearchedAt  time.Time       `json:"searched_at" yaml:"searched_at"`
	Criteria    search.Criteria `json:"criteria" yaml:"criteria"`
	Filter      string          `json:"filter,omitempty" yaml:"filter,omitempty"`
	Courses     []course.Course `json:"courses" yaml:"courses"`
	CourseCount int             `json:"course_count" yaml:"course_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRaw writes an untyped GraphQL response as JSON or YAML
func WriteRaw(w io.Writer, body map[string]interface{}, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, body)
	case FormatYAML:
		return writeYAML(w, body)
	default:
		return fmt.Errorf("raw output supports json or yaml, not %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeYAML outputs results as YAML
func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	c := result.Criteria
	fmt.Fprintf(w, "%s %s, %s %s\n", titleCase(c.Semester), c.Year, c.Subject, c.Number)
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}

	if result.CourseCount == 0 {
		fmt.Fprintln(w, "\nNo courses found.")
		return nil
	}

	for i := range result.Courses {
		crs := &result.Courses[i]

		if crs.SubjectCode != "" {
			fmt.Fprintf(w, "\n%s: %s", crs.Name(), crs.Label)
		} else {
			fmt.Fprintf(w, "\n%s", crs.Label)
		}
		if crs.CreditHours > 0 {
			fmt.Fprintf(w, " (%d hours)", crs.CreditHours)
		}
		fmt.Fprintln(w)

		if verbose && crs.Description != "" {
			fmt.Fprintf(w, "  %s\n", crs.Description)
		}

		for _, section := range crs.Sections {
			code := section.SectionCode
			if code == "" {
				code = "-"
			}
			fmt.Fprintf(w, "  %-5s CRN %-6s %s\n", code, section.SectionNumber, section.EnrollmentStatus)
			if verbose {
				fmt.Fprintf(w, "        ID: %s\n", section.ID)
			}

			for _, m := range section.Meetings {
				fmt.Fprintf(w, "        %s\n", formatMeeting(m))
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d courses\n", result.CourseCount)
	return nil
}

// formatMeeting renders one meeting line, e.g. "TR    9:30 AM - 10:45 AM  1002 ECEB"
func formatMeeting(m course.Meeting) string {
	if m.IsOnline {
		if m.DaysOfWeek != "" && m.Start != "" && !strings.EqualFold(m.Start, "ARRANGED") {
			return fmt.Sprintf("%-5s %s - %s  Online", m.DaysOfWeek, m.Start, m.End)
		}
		return "Online"
	}

	start, err1 := calendar.ParseClock(m.Start)
	end, err2 := calendar.ParseClock(m.End)
	if err1 != nil || err2 != nil || m.DaysOfWeek == "" {
		return strings.TrimSpace("Arranged  " + calendar.Location(m))
	}

	return strings.TrimSpace(fmt.Sprintf("%-5s %s - %s  %s",
		m.DaysOfWeek, calendar.FormatClock(start), calendar.FormatClock(end), calendar.Location(m)))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
