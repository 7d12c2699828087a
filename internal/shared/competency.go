package shared

import (
	"fmt"
	"time"
)

// Competency identifies the calendar month used as the accounting period for
// aggregation. The zero value is not meaningful.
type Competency struct {
	Year  int
	Month time.Month
}

// CompetencyOf returns the competency containing t.
func CompetencyOf(t time.Time) Competency {
	return Competency{Year: t.Year(), Month: t.Month()}
}

// ParseCompetency reads the "2006-01" form used by the API.
func ParseCompetency(s string) (Competency, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Competency{}, fmt.Errorf("competency: parse %q: %w", s, err)
	}
	return CompetencyOf(t), nil
}

// String renders the competency in its wire form.
func (c Competency) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Start returns the first instant of the month in loc.
func (c Competency) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, loc)
}

// End returns the first instant of the following month in loc.
func (c Competency) End(loc *time.Location) time.Time {
	return c.Start(loc).AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the month.
func (c Competency) Days() int {
	start := c.Start(time.UTC)
	return start.AddDate(0, 1, -1).Day()
}

// Contains reports whether t falls inside the month.
func (c Competency) Contains(t time.Time) bool {
	return t.Year() == c.Year && t.Month() == c.Month
}

// Previous returns the preceding month.
func (c Competency) Previous() Competency {
	return CompetencyOf(c.Start(time.UTC).AddDate(0, 0, -1))
}

// ElapsedDays returns how many days of the month have elapsed as of ref: the
// capped day-of-month when ref falls inside this competency, otherwise the
// full month length. Always at least 1, so callers can divide by it.
func (c Competency) ElapsedDays(ref time.Time) int {
	days := c.Days()
	if c.Contains(ref) {
		elapsed := ref.Day()
		if elapsed > days {
			elapsed = days
		}
		if elapsed < 1 {
			elapsed = 1
		}
		return elapsed
	}
	return days
}
