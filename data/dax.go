package data

import (
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/rates"
	"github.com/banachtech/volfit/vol"
	"gonum.org/v1/gonum/mat"
)

// Market is an implied-volatility quote sheet: a strikes x maturities grid
// of Black vols plus the zero curve observed on the settlement date.
type Market struct {
	Settlement   time.Time
	S0           float64
	MaturityDays []int     // calendar days from settlement
	ZeroRates    []float64 // one per maturity pillar
	Strikes      []float64
	Vols         *mat.Dense // len(Strikes) x len(MaturityDays)
	DividendRate float64
}

// DAXJuly2002 is the DAX index option sheet of 5 July 2002, the standard
// jump-diffusion calibration example (Sepp, "Pricing European-Style Options
// under Jump Diffusion Processes with Stochastic Volatility").
func DAXJuly2002() Market {
	vols := []float64{
		0.6625, 0.4875, 0.4204, 0.3667, 0.3431, 0.3267, 0.3121, 0.3121,
		0.6007, 0.4543, 0.3967, 0.3511, 0.3279, 0.3154, 0.2984, 0.2921,
		0.5084, 0.4221, 0.3718, 0.3327, 0.3155, 0.3027, 0.2919, 0.2889,
		0.4541, 0.3869, 0.3492, 0.3149, 0.2963, 0.2926, 0.2819, 0.2800,
		0.4060, 0.3607, 0.3330, 0.2999, 0.2887, 0.2811, 0.2751, 0.2775,
		0.3726, 0.3396, 0.3108, 0.2781, 0.2788, 0.2722, 0.2661, 0.2686,
		0.3550, 0.3277, 0.3012, 0.2781, 0.2781, 0.2661, 0.2661, 0.2681,
		0.3428, 0.3209, 0.2958, 0.2740, 0.2688, 0.2627, 0.2580, 0.2620,
		0.3302, 0.3062, 0.2799, 0.2631, 0.2573, 0.2533, 0.2504, 0.2544,
		0.3343, 0.2959, 0.2705, 0.2540, 0.2504, 0.2464, 0.2448, 0.2462,
		0.3460, 0.2845, 0.2624, 0.2463, 0.2425, 0.2385, 0.2373, 0.2422,
		0.3857, 0.2860, 0.2578, 0.2399, 0.2357, 0.2327, 0.2312, 0.2351,
		0.3976, 0.2860, 0.2607, 0.2356, 0.2297, 0.2268, 0.2241, 0.2320,
	}
	return Market{
		Settlement:   time.Date(2002, time.July, 5, 0, 0, 0, 0, time.UTC),
		S0:           4468.17,
		MaturityDays: []int{13, 41, 75, 165, 256, 345, 524, 703},
		ZeroRates:    []float64{0.0357, 0.0349, 0.0341, 0.0355, 0.0359, 0.0368, 0.0386, 0.0401},
		Strikes:      []float64{3400, 3600, 3800, 4000, 4200, 4400, 4500, 4600, 4800, 5000, 5200, 5400, 5600},
		Vols:         mat.NewDense(13, 8, vols),
		DividendRate: 0.0,
	}
}

// MaturityTenors rounds the pillar day counts to whole weeks, the tenor
// granularity the helpers calibrate on.
func (m Market) MaturityTenors() []dates.Period {
	out := make([]dates.Period, len(m.MaturityDays))
	for i, d := range m.MaturityDays {
		out[i] = dates.NewPeriod((d+3)/7, dates.WeekUnit)
	}
	return out
}

// RiskFreeCurve interpolates the quoted zero rates, anchored at the first
// pillar rate on the settlement date.
func (m Market) RiskFreeCurve(dc dates.DayCounter) (*rates.ZeroCurve, error) {
	dts := make([]time.Time, 0, len(m.MaturityDays)+1)
	zs := make([]float64, 0, len(m.ZeroRates)+1)
	dts = append(dts, m.Settlement)
	zs = append(zs, m.ZeroRates[0])
	for i, d := range m.MaturityDays {
		dts = append(dts, m.Settlement.AddDate(0, 0, d))
		zs = append(zs, m.ZeroRates[i])
	}
	return rates.NewZeroCurveFromDates(m.Settlement, dts, zs, dc)
}

// Surface builds a strike-smile grid surface over the quote sheet.
func (m Market) Surface(cal dates.Calendar, dc dates.DayCounter) (*vol.Surface, error) {
	dts := make([]time.Time, len(m.MaturityDays))
	for i, d := range m.MaturityDays {
		dts[i] = m.Settlement.AddDate(0, 0, d)
	}
	r, c := m.Vols.Dims()
	grid := mat.NewDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			grid.Set(j, i, m.Vols.At(i, j))
		}
	}
	return vol.NewSmileGridSurface(m.Settlement, cal, dc, dates.ModifiedFollowing, dts, m.Strikes, grid)
}
