package types

import (
	"time"
)

// AddClampedDate adds years and months to t, clamping the day to the last
// valid day of the resulting month (Jan 31 + 1 month = Feb 28/29), then adds days.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	total := int(m) - 1 + months
	newY := y + years + floorDiv(total, 12)
	newM := time.Month(total - floorDiv(total, 12)*12 + 1)

	lastDay := time.Date(newY, newM+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	clamped := time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		clamped = clamped.AddDate(0, 0, days)
	}
	return clamped
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DaysBetween returns the number of whole days from start to end, negative if end is before start.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
