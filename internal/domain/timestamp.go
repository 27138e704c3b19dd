package domain

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layouts accepted across the pipeline. A literal Z suffix is
// rewritten to +00:00 before parsing; layouts without an offset are read as
// UTC so all window comparisons happen in a single time zone.
var tsLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp string and normalizes it to UTC.
func ParseTimestamp(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if strings.HasSuffix(s, "Z") {
		s = s[:len(s)-1] + "+00:00"
	}
	for _, layout := range tsLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", ts)
}

// ValidTimestamp reports whether ts parses under ParseTimestamp.
func ValidTimestamp(ts string) bool {
	_, err := ParseTimestamp(ts)
	return err == nil
}
