package recurrence

import "time"

// Outcome is what a materialization pass did with one occurrence.
type Outcome int

const (
	Created Outcome = iota
	SkippedConflict
	SkippedPast
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case SkippedConflict:
		return "skipped_conflict"
	case SkippedPast:
		return "skipped_past"
	default:
		return "unknown"
	}
}

type Occurrence struct {
	Date          time.Time `json:"date"`
	StartAt       time.Time `json:"start_at"`
	Outcome       Outcome   `json:"-"`
	AppointmentID string    `json:"appointment_id,omitempty"`
}

// Report lists every occurrence a pass evaluated, in date order.
type Report struct {
	RuleID      string       `json:"rule_id"`
	Occurrences []Occurrence `json:"-"`
}

// Record appends one evaluated occurrence.
func (r *Report) Record(date, startAt time.Time, outcome Outcome, appointmentID string) {
	r.Occurrences = append(r.Occurrences, Occurrence{
		Date:          date,
		StartAt:       startAt,
		Outcome:       outcome,
		AppointmentID: appointmentID,
	})
}

func (r *Report) Count(o Outcome) int {
	n := 0
	for _, occ := range r.Occurrences {
		if occ.Outcome == o {
			n++
		}
	}
	return n
}

// Summary is the counts exposed to API callers.
type Summary struct {
	Created         int `json:"created"`
	SkippedConflict int `json:"skipped_conflict"`
	SkippedPast     int `json:"skipped_past"`
}

func (r *Report) Summary() Summary {
	if r == nil {
		return Summary{}
	}
	return Summary{
		Created:         r.Count(Created),
		SkippedConflict: r.Count(SkippedConflict),
		SkippedPast:     r.Count(SkippedPast),
	}
}
