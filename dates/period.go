package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the granularity of a Period.
type Unit int

const (
	DayUnit Unit = iota
	WeekUnit
	MonthUnit
	YearUnit
)

func (u Unit) String() string {
	switch u {
	case DayUnit:
		return "D"
	case WeekUnit:
		return "W"
	case MonthUnit:
		return "M"
	default:
		return "Y"
	}
}

// Period is a calendar tenor such as 13D, 2W, 3M or 10Y.
type Period struct {
	N int
	U Unit
}

func NewPeriod(n int, u Unit) Period { return Period{N: n, U: u} }

// ParsePeriod converts strings like "1W", "3M" or "10Y" to a Period.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("cannot parse tenor %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("cannot parse tenor %q: %w", s, err)
	}
	switch s[len(s)-1] {
	case 'D':
		return Period{n, DayUnit}, nil
	case 'W':
		return Period{n, WeekUnit}, nil
	case 'M':
		return Period{n, MonthUnit}, nil
	case 'Y':
		return Period{n, YearUnit}, nil
	}
	return Period{}, fmt.Errorf("unknown tenor unit in %q", s)
}

func (p Period) String() string {
	return fmt.Sprintf("%d%s", p.N, p.U)
}

// Add shifts t by the period without business-day adjustment. Month and year
// shifts behave like Excel's EDATE, clamping to the last day of short months.
func (p Period) Add(t time.Time) time.Time {
	switch p.U {
	case DayUnit:
		return t.AddDate(0, 0, p.N)
	case WeekUnit:
		return t.AddDate(0, 0, 7*p.N)
	case MonthUnit:
		return AddMonths(t, p.N)
	default:
		return AddMonths(t, 12*p.N)
	}
}

// Years is the approximate year length of the tenor, used for ordering
// tenors against domain limits.
func (p Period) Years() float64 {
	switch p.U {
	case DayUnit:
		return float64(p.N) / 365.0
	case WeekUnit:
		return float64(p.N) * 7.0 / 365.0
	case MonthUnit:
		return float64(p.N) / 12.0
	default:
		return float64(p.N)
	}
}

// AddMonths behaves like Excel's EDATE, avoiding Go's month normalization
// surprises on short months.
func AddMonths(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}
	d := t.AddDate(0, months, 0)
	origMonth := int(d.Month())
	for int(d.Month()) == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
