package timex

import "time"

// ISOLayout is a fixed-width UTC ISO-8601 layout. Because every field has a
// constant width, lexical order of formatted values equals time order, which
// lets SQLite sort TEXT timestamps with a plain ORDER BY.
const ISOLayout = "2006-01-02T15:04:05.000000000Z"

// FormatISO renders t in UTC using ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses a value produced by FormatISO. RFC 3339 input is accepted
// too, for rows written by other tools.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
