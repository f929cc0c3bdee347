// Package window produces the per-day query parameters for a trailing window.
package window

import (
	"fmt"
	"iter"
	"time"
)

// Day is a calendar date without a time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Pattern returns the cat API index glob for the day, e.g. "*2025*4*14".
// Month and day are not zero padded.
func (d Day) Pattern() string {
	return fmt.Sprintf("*%04d*%d*%d", d.Year, int(d.Month), d.Day)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Trailing yields n days counting backward, starting with the day before now.
// Month and year boundaries roll over. The sequence can be ranged over more
// than once and yields nothing when n <= 0.
func Trailing(now time.Time, n int) iter.Seq[Day] {
	y, m, d := now.Date()
	// Noon keeps the arithmetic clear of DST transitions.
	anchor := time.Date(y, m, d, 12, 0, 0, 0, now.Location())

	return func(yield func(Day) bool) {
		for i := 1; i <= n; i++ {
			if !yield(DayOf(anchor.AddDate(0, 0, -i))) {
				return
			}
		}
	}
}

// Collect returns the days of Trailing as a slice.
func Collect(now time.Time, n int) []Day {
	days := make([]Day, 0, max(n, 0))
	for d := range Trailing(now, n) {
		days = append(days, d)
	}
	return days
}
