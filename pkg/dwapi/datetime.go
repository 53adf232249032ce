package dwapi

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// The platform serializes timestamps in the legacy ASP.NET JSON form
// "/Date(milliseconds)/".
var datePattern = regexp.MustCompile(`^/Date\((\d+)\)/`)

// ParseDateTime converts a "/Date(ms)/" value to a local time. An empty value
// yields the zero time. A zero timestamp also yields the zero time without
// error: the platform stores dates outside the representable range for
// corrupted entries, and callers use the zero value to flag those documents
// rather than failing the whole result set. Any other shape, a negative
// timestamp included, is a DataError.
func ParseDateTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	m := datePattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, &DataError{Message: fmt.Sprintf("value must be formatted like '/Date(...)/', found %q", value)}
	}

	msec, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, &DataError{Message: fmt.Sprintf("timestamp out of range in %q", value)}
	}

	if msec == 0 {
		return time.Time{}, nil
	}

	return time.UnixMilli(msec), nil
}

// FormatDateTime renders t in the platform's "/Date(ms)/" form, truncated to
// whole seconds as the platform expects.
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("/Date(%d)/", t.Unix()*1000)
}

// FormatDate renders the date portion of t, midnight local time.
func FormatDate(t time.Time) string {
	year, month, day := t.Date()

	return FormatDateTime(time.Date(year, month, day, 0, 0, 0, 0, t.Location()))
}
