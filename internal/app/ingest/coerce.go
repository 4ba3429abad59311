package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Cell coercion helpers. Scan exports are messy, so every parser here
// is total: unparseable input yields nil, never an error. Row-level
// identity checks decide whether a nil is fatal for the row.

func trimCell(s string) string {
	return strings.TrimSpace(s)
}

// optString returns nil for blank cells.
func optString(s string) *string {
	s = trimCell(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseInt accepts both integer and float renderings ("443", "443.0").
func parseInt(s string) *int {
	s = trimCell(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

func parseFloat(s string) *float64 {
	s = trimCell(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseBool(s string) *bool {
	v := strings.ToLower(trimCell(s))
	switch v {
	case "true", "t", "yes", "1":
		b := true
		return &b
	case "false", "f", "no", "0":
		b := false
		return &b
	}
	return nil
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseISOTime handles the ISO-ish timestamp variants seen in weekly
// infrastructure exports.
func parseISOTime(s string) *time.Time {
	s = trimCell(s)
	if s == "" {
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// webDetectionLayout matches the detection timestamps of monthly web
// exports, e.g. "15 Mar 2025 7:30PM GMT".
const webDetectionLayout = "2 Jan 2006 3:04PM GMT"

func parseWebTime(s string) *time.Time {
	s = trimCell(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(webDetectionLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
