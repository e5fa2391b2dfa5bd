package dtos

import (
	"strings"
	"time"
)

// Layouts accepted for date inputs, most specific first. The second is what
// an HTML datetime-local input submits.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	time.DateTime,
	time.DateOnly,
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseOptionalDate(raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	t, ok := parseDate(raw)
	if !ok {
		return nil, false
	}
	return &t, true
}
