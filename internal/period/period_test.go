package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tacticalsync/tacticalsync/internal/period"
)

var allFrequencies = []period.Frequency{
	period.Daily, period.Weekly, period.BiWeekly, period.Monthly, period.Quarterly,
}

// A spread of dates covering month ends, leap February, year boundaries
// and both DST transitions of a typical year.
var sampleDates = []time.Time{
	time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    period.Frequency
		wantErr bool
	}{
		{in: "weekly", want: period.Weekly},
		{in: "Bi-Weekly", want: period.BiWeekly},
		{in: "biweekly", want: period.BiWeekly},
		{in: "quarter", want: period.Quarterly},
		{in: "quarterly", want: period.Quarterly},
		{in: " monthly ", want: period.Monthly},
		{in: "daily", want: period.Daily},
		{in: "fortnightly", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := period.ParseFrequency(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestStartIdempotent(t *testing.T) {
	for _, f := range allFrequencies {
		for _, d := range sampleDates {
			once := f.Start(d)
			require.Equal(t, once, f.Start(once), "%s start of %s", f, d)
		}
	}
}

func TestPeriodContainsReference(t *testing.T) {
	for _, f := range allFrequencies {
		for _, d := range sampleDates {
			start := f.Start(d)
			end := f.End(start)
			require.False(t, d.Before(start), "%s: start %s after ref %s", f, start, d)
			require.False(t, d.After(end), "%s: end %s before ref %s", f, end, d)
		}
	}
}

// Consecutive periods must tile the calendar: the next period starts
// exactly one day after the current one ends.
func TestNoGapsNoOverlap(t *testing.T) {
	for _, f := range allFrequencies {
		for _, d := range sampleDates {
			start := f.Start(d)
			// Walk a few periods forward so month-length variation shows up.
			for i := 0; i < 8; i++ {
				end := f.End(start)
				next := f.Next(start)
				if f == period.Daily {
					require.Equal(t, end.AddDate(0, 0, 1), next)
				} else {
					require.Equal(t, end.AddDate(0, 0, 1), next,
						"%s: period starting %s ends %s but next starts %s", f, start, end, next)
				}
				start = next
			}
		}
	}
}

func TestMonthlyNextClampsAtMonthEnd(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got := period.Monthly.Next(jan31)
	require.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), got)

	// Leap year lands on the 29th.
	jan31leap := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), period.Monthly.Next(jan31leap))

	// A 31st advancing into a 30-day month clamps to the 30th.
	mar31 := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), period.Monthly.Next(mar31))
}

func TestQuarterlyNextClamps(t *testing.T) {
	// Aug 31 + one quarter: November has 30 days.
	aug31 := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), period.Quarterly.Next(aug31))
}

// Advancing a weekly series across DST transitions must keep the
// local calendar date: the math is date-only, so a series anchored on
// a Monday stays on Mondays through spring-forward and fall-back.
func TestWeeklyDSTInvariance(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Monday before the 2025 spring-forward (Mar 9) at 9am local.
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	cur := period.Weekly.Start(start)
	for i := 0; i < 6; i++ {
		require.Equal(t, time.Monday, cur.Weekday(), "week %d start %s", i, cur)
		next := period.Weekly.Next(cur)
		require.Equal(t, 7*24*time.Hour, next.Sub(cur))
		cur = next
	}

	// Same across the fall-back (Nov 2, 2025).
	cur = period.Weekly.Start(time.Date(2025, 10, 27, 9, 0, 0, 0, loc))
	for i := 0; i < 3; i++ {
		require.Equal(t, time.Monday, cur.Weekday())
		cur = period.Weekly.Next(cur)
	}
}

func TestBiWeeklyKeepsWeekdayAnchor(t *testing.T) {
	cur := period.BiWeekly.Start(time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC))
	require.Equal(t, time.Monday, cur.Weekday())
	for i := 0; i < 26; i++ {
		next := period.BiWeekly.Next(cur)
		require.Equal(t, time.Monday, next.Weekday())
		require.Equal(t, 14, int(next.Sub(cur).Hours()/24))
		cur = next
	}
}

func TestStartBoundaries(t *testing.T) {
	tests := []struct {
		f    period.Frequency
		ref  time.Time
		want time.Time
	}{
		// Sunday belongs to the week starting the previous Monday.
		{period.Weekly, time.Date(2025, 11, 23, 0, 0, 0, 0, time.UTC), time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)},
		// Monday is its own week start.
		{period.Weekly, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)},
		{period.Monthly, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{period.Quarterly, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
		{period.Quarterly, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{period.Daily, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.f.Start(tt.ref), "%s start of %s", tt.f, tt.ref)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		f     period.Frequency
		start time.Time
		want  string
	}{
		{period.Weekly, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), "Week 47 (11/17 - 11/23)"},
		{period.BiWeekly, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), "Weeks 47-48 (11/17 - 11/30)"},
		{period.Monthly, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), "November 2025 (11/1 - 11/30)"},
		{period.Quarterly, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), "Q4 2025 (10/1 - 12/31)"},
		{period.Daily, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), "11/17/2025"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.f.Label(tt.start))
	}
}

func TestLabelYearWrapBiWeekly(t *testing.T) {
	// Dec 29 2025 is ISO week 1 of 2026.
	got := period.BiWeekly.Label(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "Weeks 1-2 (12/29 - 1/11)", got)
}

func TestStartStripsTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	late := time.Date(2025, 11, 17, 23, 45, 0, 0, loc)
	require.Equal(t, time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC), period.Weekly.Start(late))
}
