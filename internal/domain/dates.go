package domain

import (
	"strings"
	"time"
)

// DateLayout is the canonical persisted date form.
const DateLayout = "2006-01-02"

// Accepted input layouts, most specific first. RFC3339-style values are
// truncated to their date part before matching.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
}

// NormalizeDate parses a user-entered date leniently and returns the
// canonical YYYY-MM-DD form. Unparseable values map to nil rather than an
// error: drafts keep the field absent and submission-time validation decides
// whether absence matters.
func NormalizeDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format(DateLayout)
			return &out
		}
	}
	if len(s) > 10 && (strings.Contains(s, "T") || strings.Contains(s, " ")) {
		// Timestamp-ish input: retry with the date prefix only.
		if t, err := time.Parse(DateLayout, s[:10]); err == nil {
			out := t.Format(DateLayout)
			return &out
		}
	}
	return nil
}
