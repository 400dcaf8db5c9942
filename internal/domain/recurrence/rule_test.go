package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func validDraft() Draft {
	return Draft{
		ServiceID:     "svc-1",
		StaffID:       "staff-1",
		CustomerEmail: " Anna@Salon.ch ",
		Frequency:     "Weekly",
		TimeSlot:      "10:00",
		StartDate:     "2026-10-19",
	}
}

func TestDraftValidate(t *testing.T) {
	spec, err := validDraft().Validate()
	require.NoError(t, err)

	assert.Equal(t, FrequencyWeekly, spec.Frequency)
	assert.Equal(t, "anna@salon.ch", spec.CustomerEmail)
	assert.Equal(t, TimeSlot{Hour: 10}, spec.TimeSlot)
	assert.Equal(t, date(2026, time.October, 19), spec.StartDate)
	assert.Nil(t, spec.EndDate)
}

func TestDraftValidate_Rejects(t *testing.T) {
	dow := 7
	cases := []struct {
		name   string
		mutate func(*Draft)
		code   string
	}{
		{"missing staff", func(d *Draft) { d.StaffID = "" }, "missing_required_fields"},
		{"missing start", func(d *Draft) { d.StartDate = " " }, "missing_required_fields"},
		{"frequency", func(d *Draft) { d.Frequency = "daily" }, "invalid_frequency"},
		{"email", func(d *Draft) { d.CustomerEmail = "anna" }, "invalid_customer_email"},
		{"slot", func(d *Draft) { d.TimeSlot = "25:00" }, "invalid_time_slot"},
		{"day of week", func(d *Draft) { d.DayOfWeek = &dow }, "invalid_day_of_week"},
		{"start", func(d *Draft) { d.StartDate = "19.10.2026" }, "invalid_start_date"},
		{"end", func(d *Draft) { d.EndDate = "soon" }, "invalid_end_date"},
		{"end before start", func(d *Draft) { d.EndDate = "2026-10-18" }, "end_before_start"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)

			_, err := d.Validate()
			require.Error(t, err)
			assert.True(t, httperr.IsValidation(err))
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestTimeSlotOn(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	slot, err := ParseTimeSlot("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", slot.String())

	day := time.Date(2026, time.October, 26, 0, 0, 0, 0, loc)
	got := slot.On(day)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, loc, got.Location())
}
