package dates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in       string
		expected Period
	}{
		{"13D", Period{13, DayUnit}},
		{"2W", Period{2, WeekUnit}},
		{"6M", Period{6, MonthUnit}},
		{"10Y", Period{10, YearUnit}},
		{" 3m ", Period{3, MonthUnit}},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParsePeriod(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.expected, p)
		})
	}

	for _, bad := range []string{"", "M", "3Q", "xM"} {
		_, err := ParsePeriod(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestPeriodString(t *testing.T) {
	require.Equal(t, "6M", Period{6, MonthUnit}.String())
	require.Equal(t, "75W", Period{75, WeekUnit}.String())
}

func TestPeriodAdd(t *testing.T) {
	testCases := []struct {
		name     string
		p        Period
		start    string
		expected string
	}{
		{"days", Period{13, DayUnit}, "2002-07-05", "2002-07-18"},
		{"weeks", Period{2, WeekUnit}, "2002-07-05", "2002-07-19"},
		{"months", Period{6, MonthUnit}, "2002-07-05", "2003-01-05"},
		{"years", Period{10, YearUnit}, "2002-07-05", "2012-07-05"},
		{"month-end clamp", Period{1, MonthUnit}, "2020-01-31", "2020-02-29"},
		{"year over leap day", Period{1, YearUnit}, "2020-02-29", "2021-02-28"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, d(tc.expected), tc.p.Add(d(tc.start)))
		})
	}
}

func TestPeriodYears(t *testing.T) {
	require.InDelta(t, 0.5, Period{6, MonthUnit}.Years(), 1e-12)
	require.InDelta(t, 10.0, Period{10, YearUnit}.Years(), 1e-12)
	require.InDelta(t, 14.0/365.0, Period{2, WeekUnit}.Years(), 1e-12)
}
