package utils

import (
	"time"
)

const timestampLayout = "2006-01-02 15:04"

// FormatTimestamp returns the provided time formatted using the local time zone
// and a layout that includes date and minutes.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// FormatRFC3339Timestamp reformats an RFC 3339 string, such as the modified_at
// values reported by the inference service, into the short local layout. The
// input is returned unchanged when it does not parse.
func FormatRFC3339Timestamp(value string) string {
	parsedValue, parseError := time.Parse(time.RFC3339, value)
	if parseError != nil {
		return value
	}
	return FormatTimestamp(parsedValue)
}
