package vol

import (
	"sort"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/mat"
)

// SmileGridBackend interpolates a grid of volatilities quoted per
// (option maturity, strike) node, the shape of an equity quote sheet. The
// volatility does not depend on the instrument length.
type SmileGridBackend struct {
	optionTimes []float64
	strikes     []float64
	vols        *mat.Dense
	maxTenor    dates.Period
}

// NewSmileGridSurface builds a surface over maturity dates and absolute
// strikes. vols must be len(optionDates) x len(strikes).
func NewSmileGridSurface(refDate time.Time, cal dates.Calendar, dc dates.DayCounter, bdc dates.Convention,
	optionDates []time.Time, strikes []float64, vols *mat.Dense) (*Surface, error) {

	if len(optionDates) < 2 || len(strikes) < 2 {
		return nil, errs.Configf("smile grid needs at least 2 pillars per axis")
	}
	r, c := vols.Dims()
	if r != len(optionDates) || c != len(strikes) {
		return nil, errs.Configf("vol grid is %dx%d, want %dx%d", r, c, len(optionDates), len(strikes))
	}
	b := &SmileGridBackend{
		strikes:  strikes,
		vols:     vols,
		maxTenor: dates.NewPeriod(100, dates.YearUnit),
	}
	b.optionTimes = make([]float64, len(optionDates))
	for i, d := range optionDates {
		b.optionTimes[i] = dc.YearFraction(refDate, d)
	}
	if !sort.Float64sAreSorted(b.optionTimes) || !sort.Float64sAreSorted(strikes) {
		return nil, errs.Configf("maturities and strikes must be increasing")
	}
	return NewSurface(b, refDate, cal, dc, bdc)
}

func (b *SmileGridBackend) MaxOptionTime() float64 {
	return b.optionTimes[len(b.optionTimes)-1]
}

func (b *SmileGridBackend) MaxInstrumentTenor() dates.Period { return b.maxTenor }
func (b *SmileGridBackend) MinStrike() float64               { return b.strikes[0] }
func (b *SmileGridBackend) MaxStrike() float64               { return b.strikes[len(b.strikes)-1] }

func (b *SmileGridBackend) VolatilityAt(t, l, k float64) float64 {
	return bilinear(b.optionTimes, b.strikes, b.vols, t, k)
}

func (b *SmileGridBackend) SmileSectionAt(t, l float64) SmileSection {
	i, w := locate(b.optionTimes, t)
	vols := make([]float64, len(b.strikes))
	for j := range b.strikes {
		vols[j] = (1-w)*b.vols.At(i, j) + w*b.vols.At(i+1, j)
	}
	s, err := NewInterpolatedSmile(b.strikes, vols)
	if err != nil {
		// strikes were validated increasing at construction
		return FlatSmile{Vol: vols[0], MinK: b.MinStrike(), MaxK: b.MaxStrike()}
	}
	return s
}
