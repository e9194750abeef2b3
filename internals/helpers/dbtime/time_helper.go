// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// loc is the library's wall-clock zone; calendar dates (request/due/...) are
// taken in this zone and stored as UTC midnight.
var loc = time.UTC

func SetLocation(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		loc = time.UTC
		return nil
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", name, err)
	}
	loc = l
	return nil
}

// Today returns the calendar day of now in the library zone.
func Today(now time.Time) datatypes.Date {
	y, m, d := now.In(loc).Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func AddDays(d datatypes.Date, days int) datatypes.Date {
	return datatypes.Date(time.Time(d).AddDate(0, 0, days))
}

// Before reports whether a is an earlier calendar day than b.
func Before(a, b datatypes.Date) bool {
	return FormatValue(a) < FormatValue(b)
}

func FormatValue(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

func Format(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return FormatValue(*d)
}

// FormatPtr is Format for JSON DTOs: nil stays nil.
func FormatPtr(d *datatypes.Date) *string {
	if d == nil || time.Time(*d).IsZero() {
		return nil
	}
	s := FormatValue(*d)
	return &s
}

// ParseDate parses YYYY-MM-DD; blank input yields nil.
func ParseDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}
