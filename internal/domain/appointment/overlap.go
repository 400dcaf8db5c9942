package appointment

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func IntervalOf(start time.Time, durationMin int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMin) * time.Minute)}
}

// Overlaps is the single definition of a staff double-booking. The SQL in
// the appointment repository and the postgres exclusion constraint mirror it.
func Overlaps(existing, candidate Interval) bool {
	return existing.Start.Before(candidate.End) && existing.End.After(candidate.Start)
}

// AnyOverlap reports whether candidate overlaps any of the given intervals.
func AnyOverlap(existing []Interval, candidate Interval) bool {
	for _, iv := range existing {
		if Overlaps(iv, candidate) {
			return true
		}
	}
	return false
}
