package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/coursecal/internal/calendar"
)

// Parse builds a Filter from a comma-separated expression.
//
// Supported terms:
//   - "open" - open sections only
//   - "online" - sections with an online meeting
//   - "in-person" (or "inperson") - sections without online meetings
//   - "days=MWF" - meetings only on the given days (M T W R F S U)
//   - "label=data" - course label contains the keyword; may repeat
//
// An empty expression yields an empty filter.
func Parse(expr string) (*Filter, error) {
	f := NewFilter()

	for _, term := range strings.Split(expr, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		key, value, hasValue := strings.Cut(term, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "open":
			f.OpenOnly = true
		case "online":
			f.OnlineOnly = true
		case "in-person", "inperson":
			f.InPersonOnly = true
		case "days":
			if !hasValue || value == "" {
				return nil, fmt.Errorf("days needs a value, e.g. days=MWF")
			}
			days, err := calendar.ParseDays(value)
			if err != nil {
				return nil, fmt.Errorf("parsing days: %w", err)
			}
			f.Days = days
		case "label":
			if !hasValue || value == "" {
				return nil, fmt.Errorf("label needs a value, e.g. label=data")
			}
			f.Keywords = append(f.Keywords, value)
		default:
			return nil, fmt.Errorf("unknown filter term %q", term)
		}
	}

	if f.OnlineOnly && f.InPersonOnly {
		return nil, fmt.Errorf("online and in-person cannot both be set")
	}

	return f, nil
}
