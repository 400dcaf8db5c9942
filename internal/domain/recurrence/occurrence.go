package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// DefaultHorizon is how far ahead an open-ended rule is materialized.
const DefaultHorizon = 365 * 24 * time.Hour

// Cursor yields occurrence dates, at midnight, in strictly increasing order.
type Cursor func() (date time.Time, ok bool)

// Horizon is the inclusive end of generation: the end date when present,
// otherwise now plus window.
func Horizon(end *timezone.CivilDate, now time.Time, window time.Duration, loc *time.Location) time.Time {
	if end != nil {
		return end.Midnight(loc)
	}
	return now.Add(window)
}

// Occurrences walks a rule from start through horizon.
//
// Monthly rules keep the start's day of month and clamp it to the last day
// of shorter months: a rule starting Jan 31 yields Feb 28 (29 in leap
// years), Mar 31, Apr 30. An unknown frequency yields the start date only.
func Occurrences(freq Frequency, start timezone.CivilDate, horizon time.Time, loc *time.Location) (Cursor, error) {
	dtstart := start.Midnight(loc)

	var opt rrule.ROption
	switch freq {
	case FrequencyWeekly:
		opt = rrule.ROption{Freq: rrule.WEEKLY, Dtstart: dtstart, Until: horizon}
	case FrequencyMonthly:
		opt = rrule.ROption{Freq: rrule.MONTHLY, Dtstart: dtstart, Until: horizon}
		if start.Day > 28 {
			// last existing day among 28..start.Day
			for d := 28; d <= start.Day; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		} else {
			opt.Bymonthday = []int{start.Day}
		}
	default:
		return single(dtstart, horizon), nil
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	next := r.Iterator()
	return func() (time.Time, bool) {
		return next()
	}, nil
}

func single(date, horizon time.Time) Cursor {
	done := date.After(horizon)
	return func() (time.Time, bool) {
		if done {
			return time.Time{}, false
		}
		done = true
		return date, true
	}
}

// Collect drains a cursor. Intended for previews and tests.
func Collect(c Cursor) []time.Time {
	var out []time.Time
	for d, ok := c(); ok; d, ok = c() {
		out = append(out, d)
	}
	return out
}
