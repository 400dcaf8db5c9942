package timezone

import "time"

const DefaultTimezone = "Europe/Zurich"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// CivilDate is a calendar date without time or zone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, err
	}
	return CivilDateOf(t), nil
}

// CivilDateOf reads the date fields of t in t's own location.
func CivilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// StoredDate reads a date persisted as UTC midnight.
func StoredDate(t time.Time) CivilDate {
	return CivilDateOf(t.UTC())
}

// Midnight is the start of the date in loc.
func (d CivilDate) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// UTC is the representation used for storage.
func (d CivilDate) UTC() time.Time {
	return d.Midnight(time.UTC)
}

func (d CivilDate) Before(o CivilDate) bool {
	return d.UTC().Before(o.UTC())
}

func (d CivilDate) String() string {
	return d.UTC().Format("2006-01-02")
}
