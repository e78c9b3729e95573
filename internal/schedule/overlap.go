package schedule

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that merely touch do not overlap: a slot ending at 10:00 is
// compatible with one starting at 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// overlapsAny reports whether the candidate window intersects any booked interval.
func overlapsAny(start, end time.Time, booked []Interval) bool {
	for _, b := range booked {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
