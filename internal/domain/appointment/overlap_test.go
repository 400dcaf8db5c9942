package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.October, 19, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	existing := Interval{Start: at(10, 0), End: at(10, 30)}

	cases := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"identical", Interval{at(10, 0), at(10, 30)}, true},
		{"contains existing", Interval{at(9, 0), at(11, 0)}, true},
		{"inside existing", Interval{at(10, 10), at(10, 20)}, true},
		{"overlaps start", Interval{at(9, 45), at(10, 15)}, true},
		{"overlaps end", Interval{at(10, 15), at(10, 45)}, true},
		{"ends where existing starts", Interval{at(9, 30), at(10, 0)}, false},
		{"starts where existing ends", Interval{at(10, 30), at(11, 0)}, false},
		{"far before", Interval{at(8, 0), at(9, 0)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(existing, tc.candidate))
			assert.Equal(t, tc.want, Overlaps(tc.candidate, existing), "predicate must be symmetric")
		})
	}
}

func TestAnyOverlap(t *testing.T) {
	booked := []Interval{
		IntervalOf(at(9, 0), 30),
		IntervalOf(at(11, 0), 60),
	}

	assert.False(t, AnyOverlap(booked, IntervalOf(at(9, 30), 90)))
	assert.True(t, AnyOverlap(booked, IntervalOf(at(10, 30), 45)))
	assert.False(t, AnyOverlap(nil, IntervalOf(at(10, 30), 45)))
}

func TestCancel(t *testing.T) {
	now := at(8, 0)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	require.NoError(t, Cancel(ap, "", now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, CreatedBySystem, ap.CancelledBy)
	require.NotNil(t, ap.CancelledAt)
	assert.True(t, ap.CancelledAt.Equal(now))

	err := Cancel(ap, "owner@salon.ch", now)
	assert.Error(t, err, "cancelled appointments stay cancelled")
}

func TestComplete(t *testing.T) {
	now := at(12, 0)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	assert.Error(t, Complete(ap, now), "completed appointments cannot complete twice")
	assert.Error(t, Cancel(ap, "", now), "completed appointments cannot be cancelled")
}
