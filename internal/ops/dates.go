package ops

import (
	"fmt"
	"time"

	"github.com/alnah/go-easyapply/internal/dateutil"
)

// ParseDate parses YYYY-MM-DD, YYYY-MM or YYYY.
func ParseDate(value string) (time.Time, error) {
	return dateutil.ParseDate(value)
}

// ParseDateValue accepts what YAML hands templates for a date: a string,
// an integer year, or an already parsed time.
func ParseDateValue(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		return dateutil.ParseDate(d)
	case int:
		return dateutil.ParseDate(fmt.Sprintf("%04d", d))
	case int64:
		return dateutil.ParseDate(fmt.Sprintf("%04d", d))
	case uint64:
		return dateutil.ParseDate(fmt.Sprintf("%04d", d))
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v (%T)", ErrInvalidDate, v, v)
	}
}

// FormatDate formats t with a strftime ("%B %Y") or token ("MMMM YYYY") pattern.
func FormatDate(t time.Time, pattern string) (string, error) {
	return dateutil.FormatDate(t, pattern)
}

// DaySuffix returns "st", "nd", "rd" or "th" for the day of t.
func DaySuffix(t time.Time) string {
	return dateutil.DaySuffix(t)
}
