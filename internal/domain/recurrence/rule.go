package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly
}

// TimeSlot is a wall-clock time of day.
type TimeSlot struct {
	Hour   int
	Minute int
}

// ParseTimeSlot accepts 24h "HH:MM" (a single-digit hour is tolerated).
func ParseTimeSlot(s string) (TimeSlot, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q", s)
	}
	return TimeSlot{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On places the slot on the calendar day of date, in date's location.
func (ts TimeSlot) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, ts.Hour, ts.Minute, 0, 0, date.Location())
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", ts.Hour, ts.Minute)
}

// ======================================================
// DRAFT
// ======================================================

// Draft is the raw input of a new recurring booking.
type Draft struct {
	ServiceID     string
	StaffID       string
	CustomerEmail string
	Frequency     string
	DayOfWeek     *int
	TimeSlot      string
	StartDate     string
	EndDate       string
}

// Spec is a validated Draft.
type Spec struct {
	ServiceID     string
	StaffID       string
	CustomerEmail string
	Frequency     Frequency
	DayOfWeek     *int
	TimeSlot      TimeSlot
	StartDate     timezone.CivilDate
	EndDate       *timezone.CivilDate
}

// Validate checks presence first, then shape. Every failure is a
// validation error carrying a stable code.
func (d Draft) Validate() (Spec, error) {
	if strings.TrimSpace(d.ServiceID) == "" ||
		strings.TrimSpace(d.StaffID) == "" ||
		strings.TrimSpace(d.CustomerEmail) == "" ||
		strings.TrimSpace(d.Frequency) == "" ||
		strings.TrimSpace(d.TimeSlot) == "" ||
		strings.TrimSpace(d.StartDate) == "" {
		return Spec{}, httperr.ErrValidation("missing_required_fields")
	}

	freq := Frequency(strings.ToLower(strings.TrimSpace(d.Frequency)))
	if !freq.Valid() {
		return Spec{}, httperr.ErrValidation("invalid_frequency")
	}

	email := strings.ToLower(strings.TrimSpace(d.CustomerEmail))
	if !validators.IsEmail(email) {
		return Spec{}, httperr.ErrValidation("invalid_customer_email")
	}

	slot, err := ParseTimeSlot(d.TimeSlot)
	if err != nil {
		return Spec{}, httperr.ErrValidation("invalid_time_slot")
	}

	if d.DayOfWeek != nil && (*d.DayOfWeek < 0 || *d.DayOfWeek > 6) {
		return Spec{}, httperr.ErrValidation("invalid_day_of_week")
	}

	start, err := timezone.ParseDate(strings.TrimSpace(d.StartDate))
	if err != nil {
		return Spec{}, httperr.ErrValidation("invalid_start_date")
	}

	spec := Spec{
		ServiceID:     strings.TrimSpace(d.ServiceID),
		StaffID:       strings.TrimSpace(d.StaffID),
		CustomerEmail: email,
		Frequency:     freq,
		DayOfWeek:     d.DayOfWeek,
		TimeSlot:      slot,
		StartDate:     start,
	}

	if strings.TrimSpace(d.EndDate) != "" {
		end, err := timezone.ParseDate(strings.TrimSpace(d.EndDate))
		if err != nil {
			return Spec{}, httperr.ErrValidation("invalid_end_date")
		}
		if end.Before(start) {
			return Spec{}, httperr.ErrValidation("end_before_start")
		}
		spec.EndDate = &end
	}

	return spec, nil
}
