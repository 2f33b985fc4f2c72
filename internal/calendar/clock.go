package calendar

import (
	"fmt"
	"strings"
	"time"
)

// clockLayouts are the meeting time formats Course Explorer has been seen to use.
var clockLayouts = []string{
	"03:04 PM",
	"3:04 PM",
	"03:04PM",
	"3:04PM",
	"15:04",
}

// ParseClock converts a meeting time such as "09:30 AM" into minutes after midnight.
// Times like "ARRANGED" or "" return an error.
func ParseClock(text string) (int, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return 0, fmt.Errorf("empty meeting time")
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized meeting time %q", text)
}

// FormatClock renders minutes after midnight as "9:30 AM".
func FormatClock(minutes int) string {
	t := time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

var dayLetters = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

// ParseDays converts a days-of-week string such as "MWF" or "TR" into weekdays,
// in the order given. Spaces are ignored; duplicate letters are collapsed.
func ParseDays(text string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)

	for _, r := range strings.ToUpper(text) {
		if r == ' ' {
			continue
		}
		day, ok := dayLetters[r]
		if !ok {
			return nil, fmt.Errorf("unknown day letter %q in %q", r, text)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}
