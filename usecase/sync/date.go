package sync

import (
	"regexp"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dueLayouts are tried in order when a due date is not already in canonical
// form. Clients have historically sent anything their date pickers produce.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
	"2006/01/02",
	time.RFC1123,
	time.RFC822,
	time.ANSIC,
}

// NormalizeDueDate coerces a due value to the canonical YYYY-MM-DD calendar
// date. Strict canonical input passes through verbatim; anything else is
// parsed best-effort and unparseable values become nil. A bad date never
// fails a sync.
func NormalizeDueDate(due *string) *string {
	if due == nil {
		return nil
	}
	value := strings.TrimSpace(*due)
	if value == "" {
		return nil
	}
	if isoDatePattern.MatchString(value) {
		return &value
	}
	for _, layout := range dueLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			normalized := parsed.Format("2006-01-02")
			return &normalized
		}
	}
	return nil
}
