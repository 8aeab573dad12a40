package dates

import "time"

// Convention is a business-day rolling rule.
type Convention int

const (
	Following Convention = iota
	ModifiedFollowing
	Preceding
	Unadjusted
)

func (c Convention) String() string {
	switch c {
	case Following:
		return "Following"
	case ModifiedFollowing:
		return "ModifiedFollowing"
	case Preceding:
		return "Preceding"
	default:
		return "Unadjusted"
	}
}

// Calendar is a holiday calendar. The zero value treats only weekends as
// non-business days.
type Calendar struct {
	Name     string
	holidays map[string]bool
}

// NewCalendar builds a calendar from an explicit holiday list.
func NewCalendar(name string, hols []time.Time) Calendar {
	m := make(map[string]bool, len(hols))
	for _, h := range hols {
		m[h.Format(Layout)] = true
	}
	return Calendar{Name: name, holidays: m}
}

// TARGET returns the TARGET (eurozone settlement) calendar for the given
// years: New Year's Day, Good Friday, Easter Monday, Labour Day, Christmas
// and Boxing Day.
func TARGET(fromYear, toYear int) Calendar {
	var hols []time.Time
	for y := fromYear; y <= toYear; y++ {
		easter := easterSunday(y)
		hols = append(hols,
			time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			easter.AddDate(0, 0, -2), // Good Friday
			easter.AddDate(0, 0, 1),  // Easter Monday
			time.Date(y, time.May, 1, 0, 0, 0, 0, time.UTC),
			time.Date(y, time.December, 25, 0, 0, 0, 0, time.UTC),
			time.Date(y, time.December, 26, 0, 0, 0, 0, time.UTC),
		)
	}
	return NewCalendar("TARGET", hols)
}

// easterSunday uses the anonymous Gregorian computus.
func easterSunday(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t is neither a weekend nor a holiday.
func (c Calendar) IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidays[t.Format(Layout)]
}

// Adjust rolls t onto a business day under the given convention.
func (c Calendar) Adjust(t time.Time, conv Convention) time.Time {
	if conv == Unadjusted || c.IsBusinessDay(t) {
		return t
	}
	switch conv {
	case Preceding:
		for !c.IsBusinessDay(t) {
			t = t.AddDate(0, 0, -1)
		}
	case ModifiedFollowing:
		adj := c.Adjust(t, Following)
		if adj.Month() != t.Month() {
			return c.Adjust(t, Preceding)
		}
		return adj
	default: // Following
		for !c.IsBusinessDay(t) {
			t = t.AddDate(0, 0, 1)
		}
	}
	return t
}

// AdvanceDays moves t by n business days.
func (c Calendar) AdvanceDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for i := 0; i < n; i++ {
		t = t.AddDate(0, 0, step)
		for !c.IsBusinessDay(t) {
			t = t.AddDate(0, 0, step)
		}
	}
	return t
}

// Advance shifts t by a period and rolls the result under conv. Day periods
// are counted in business days, matching market tenor conventions.
func (c Calendar) Advance(t time.Time, p Period, conv Convention) time.Time {
	if p.U == DayUnit {
		return c.AdvanceDays(t, p.N)
	}
	return c.Adjust(p.Add(t), conv)
}
