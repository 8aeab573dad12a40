package dates

import "time"

// Layout is the date format used throughout the library.
const Layout = "2006-01-02"

// DayCounter converts a pair of dates into a year fraction under a market
// day-count convention.
type DayCounter string

const (
	Act365Fixed  DayCounter = "ACT/365F"
	ActualActual DayCounter = "ACT/ACT"
	Act360       DayCounter = "ACT/360"
	Thirty360    DayCounter = "30E/360"
)

// Days returns the whole-day count between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// YearFraction computes the year fraction from start to end. A reversed pair
// yields the negated fraction.
func (dc DayCounter) YearFraction(start, end time.Time) float64 {
	if end.Before(start) {
		return -dc.YearFraction(end, start)
	}
	switch dc {
	case Act360:
		return Days(start, end) / 360.0
	case Thirty360:
		// 30E/360 Eurobond basis: day-of-month capped at 30
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	case ActualActual:
		return actActISDA(start, end)
	default:
		return Days(start, end) / 365.0
	}
}

// actActISDA splits the period at year boundaries, weighting each piece by
// the actual length of its year.
func actActISDA(start, end time.Time) float64 {
	if start.Year() == end.Year() {
		return Days(start, end) / daysInYear(start.Year())
	}
	jan1After := time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan1End := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	out := Days(start, jan1After) / daysInYear(start.Year())
	out += float64(end.Year() - start.Year() - 1)
	out += Days(jan1End, end) / daysInYear(end.Year())
	return out
}

func daysInYear(y int) float64 {
	if isLeap(y) {
		return 366.0
	}
	return 365.0
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
