package common

import (
	"fmt"
	"time"
)

// ParseDate validates s as a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t in the entry key form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
