// Package period implements the meeting-period boundary calculator: the
// mapping from a series cadence and a reference date to the canonical
// period start, the period end, the next period start, and a display label.
// All arithmetic is date-only in UTC, so a series anchored at a local
// wall-clock date never drifts across DST transitions.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is a meeting series cadence.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	BiWeekly  Frequency = "bi-weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
)

// ParseFrequency validates a stored or user-supplied cadence value.
// "quarter" is accepted as a legacy alias for "quarterly". Anything
// outside the five known cadences is a hard error, never a default.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "bi-weekly", "biweekly":
		return BiWeekly, nil
	case "monthly":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	}
	return "", fmt.Errorf("unknown meeting frequency %q", s)
}

func (f Frequency) String() string { return string(f) }

// Date strips the time-of-day and location from t, keeping the local
// calendar date. Every function in this package operates on such dates.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Start returns the canonical start of the period containing ref:
// the reference date itself for daily, the Monday of the ISO week for
// weekly and bi-weekly, the first of the month for monthly, and the
// first day of the quarter (Jan/Apr/Jul/Oct 1) for quarterly.
func (f Frequency) Start(ref time.Time) time.Time {
	d := Date(ref)
	switch f {
	case Daily:
		return d
	case Weekly, BiWeekly:
		// Weekday is Sunday-based; shift so Monday maps to 0.
		back := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -back)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		qm := time.Month(((int(d.Month())-1)/3)*3 + 1)
		return time.Date(d.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
	}
	panic("period: invalid frequency " + string(f))
}

// End returns the inclusive last day of the period beginning at start.
func (f Frequency) End(start time.Time) time.Time {
	d := Date(start)
	switch f {
	case Daily:
		return d
	case Weekly:
		return d.AddDate(0, 0, 6)
	case BiWeekly:
		return d.AddDate(0, 0, 13)
	case Monthly:
		// Day zero of the following month is the last day of this one.
		return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		return time.Date(d.Year(), d.Month()+3, 0, 0, 0, 0, 0, time.UTC)
	}
	panic("period: invalid frequency " + string(f))
}

// Next advances current by one period unit. Monthly and quarterly use
// calendar-aware addition clamped to a valid day, so advancing from
// Jan 31 lands on the last day of February rather than rolling into
// March.
func (f Frequency) Next(current time.Time) time.Time {
	d := Date(current)
	switch f {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	case BiWeekly:
		return d.AddDate(0, 0, 14)
	case Monthly:
		return addMonthsClamped(d, 1)
	case Quarterly:
		return addMonthsClamped(d, 3)
	}
	panic("period: invalid frequency " + string(f))
}

// addMonthsClamped adds whole calendar months, clamping the day of
// month to the last valid day of the target month. time.Time.AddDate
// would normalize Jan 31 + 1 month into Mar 2/3 instead.
func addMonthsClamped(d time.Time, months int) time.Time {
	lastOfTarget := time.Date(d.Year(), d.Month()+time.Month(months)+1, 0, 0, 0, 0, 0, time.UTC)
	day := d.Day()
	if day > lastOfTarget.Day() {
		day = lastOfTarget.Day()
	}
	return time.Date(lastOfTarget.Year(), lastOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Label renders the human heading for the period beginning at start,
// e.g. "Week 47 (11/17 - 11/23)" or "Q4 2025 (10/1 - 12/31)".
func (f Frequency) Label(start time.Time) string {
	d := Date(start)
	end := f.End(d)
	switch f {
	case Daily:
		return fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())
	case Weekly:
		_, wk := d.ISOWeek()
		return fmt.Sprintf("Week %d (%s - %s)", wk, monthDay(d), monthDay(end))
	case BiWeekly:
		_, wk1 := d.ISOWeek()
		_, wk2 := d.AddDate(0, 0, 7).ISOWeek()
		return fmt.Sprintf("Weeks %d-%d (%s - %s)", wk1, wk2, monthDay(d), monthDay(end))
	case Monthly:
		return fmt.Sprintf("%s %d (%s - %s)", d.Month(), d.Year(), monthDay(d), monthDay(end))
	case Quarterly:
		q := (int(d.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d (%s - %s)", q, d.Year(), monthDay(d), monthDay(end))
	}
	panic("period: invalid frequency " + string(f))
}

func monthDay(d time.Time) string {
	return fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
}
