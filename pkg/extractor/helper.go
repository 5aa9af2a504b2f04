package extractor

import (
	"html"
	"regexp"
	"strings"
	"time"
)

var nbspRuns = regexp.MustCompile(`[\x{00a0}]+`)

// CleanText trims, HTML-entity-decodes and collapses non-breaking space
// runs into plain spaces. Empty input stays empty.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = nbspRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

// ParseTimestamp converts an ISO-8601-ish or legacy site date string into
// a unix timestamp. Unparseable input yields zero.
func ParseTimestamp(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Unix()
		}
	}
	return 0
}

var uuidRe = regexp.MustCompile(`[a-f\d]{8}-(?:[a-f\d]{4}-){3}[a-f\d]{12}`)

// SearchUUID pulls the first UUID out of a string, typically a CDN file
// URL whose object name is the entry id.
func SearchUUID(s string) string {
	return uuidRe.FindString(s)
}
