package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form, with no time zone attached.
type Date string

func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Today returns the UTC calendar day of now.
func Today(now time.Time) Date {
	return Date(now.UTC().Format(dateLayout))
}

func (d Date) String() string {
	return string(d)
}
