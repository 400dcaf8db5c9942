package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

func date(y int, m time.Month, d int) timezone.CivilDate {
	return timezone.CivilDate{Year: y, Month: m, Day: d}
}

func dates(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("2006-01-02"))
	}
	return out
}

func TestOccurrences_Weekly(t *testing.T) {
	start := date(2026, time.October, 19)
	end := date(2026, time.November, 9)

	cur, err := Occurrences(FrequencyWeekly, start, end.Midnight(time.UTC), time.UTC)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"2026-10-19", "2026-10-26", "2026-11-02", "2026-11-09"},
		dates(Collect(cur)),
	)
}

func TestOccurrences_WeeklyKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	start := date(2026, time.October, 19)
	cur, err := Occurrences(FrequencyWeekly, start, date(2026, time.November, 2).Midnight(loc), loc)
	require.NoError(t, err)

	got := Collect(cur)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, 0, d.In(loc).Hour())
	}
}

func TestOccurrences_MonthlyClampsToMonthEnd(t *testing.T) {
	start := date(2027, time.January, 31)
	end := date(2027, time.May, 31)

	cur, err := Occurrences(FrequencyMonthly, start, end.Midnight(time.UTC), time.UTC)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"2027-01-31", "2027-02-28", "2027-03-31", "2027-04-30", "2027-05-31"},
		dates(Collect(cur)),
	)
}

func TestOccurrences_MonthlyLeapYear(t *testing.T) {
	start := date(2028, time.January, 30)
	end := date(2028, time.March, 30)

	cur, err := Occurrences(FrequencyMonthly, start, end.Midnight(time.UTC), time.UTC)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"2028-01-30", "2028-02-29", "2028-03-30"},
		dates(Collect(cur)),
	)
}

func TestOccurrences_MonthlyPlainDay(t *testing.T) {
	start := date(2026, time.November, 15)
	end := date(2027, time.January, 14)

	cur, err := Occurrences(FrequencyMonthly, start, end.Midnight(time.UTC), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-11-15", "2026-12-15"}, dates(Collect(cur)))
}

func TestOccurrences_UnknownFrequencyYieldsStartOnly(t *testing.T) {
	start := date(2026, time.November, 1)

	cur, err := Occurrences(Frequency("daily"), start, date(2027, time.November, 1).UTC(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-11-01"}, dates(Collect(cur)))

	cur, err = Occurrences(Frequency("daily"), start, date(2026, time.October, 1).UTC(), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, Collect(cur))
}

func TestHorizon(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(DefaultHorizon), Horizon(nil, now, DefaultHorizon, time.UTC))

	end := date(2026, time.December, 1)
	assert.Equal(t, end.UTC(), Horizon(&end, now, DefaultHorizon, time.UTC))
}
