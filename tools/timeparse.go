package tools

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"
)

// Default time range bounds.
const (
	DefaultFrom = "1 hour ago"
	DefaultTo   = "now"
)

// TimestampLayout is the human-readable timestamp format used in results.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// ParseTime converts a time expression to Unix seconds. It accepts "now",
// integer Unix seconds, RFC 3339 timestamps and natural language relative
// to now ("1 hour ago", "yesterday").
func ParseTime(s string, now time.Time) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "now") {
		return now.Unix(), nil
	}
	if ts, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return ts, nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.Unix(), nil
	}
	if trimmed != "" {
		t, err := naturaldate.Parse(trimmed, now, naturaldate.WithDirection(naturaldate.Past))
		if err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: Unable to parse time expression: '%s'", ErrInvalidDate, s)
}

// FormatTimestamp renders Unix seconds as "2006-01-02 15:04:05 UTC".
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(TimestampLayout)
}

// ToISO8601 renders Unix seconds as an RFC 3339 UTC timestamp, the format
// the v2 search APIs expect.
func ToISO8601(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// TimeRange is a resolved [From, To] window in Unix seconds.
type TimeRange struct {
	From int64
	To   int64
}

// TimeRange resolves the "from" and "to" arguments, defaulting to the last
// hour.
func (a Args) TimeRange(now time.Time) (TimeRange, error) {
	from, err := ParseTime(a.StringOr("from", DefaultFrom), now)
	if err != nil {
		return TimeRange{}, err
	}
	to, err := ParseTime(a.StringOr("to", DefaultTo), now)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{From: from, To: to}, nil
}
