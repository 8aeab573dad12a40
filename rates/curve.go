package rates

import (
	"math"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/interp"
)

// TermStructure exposes continuously compounded zero rates and discount
// factors for a time measured in years from the reference date.
type TermStructure interface {
	Rate(t float64) float64
	Discount(t float64) float64
}

// FlatForward is a constant continuously compounded rate.
type FlatForward struct {
	R float64
}

func Flat(r float64) FlatForward { return FlatForward{R: r} }

func (f FlatForward) Rate(t float64) float64 { return f.R }

func (f FlatForward) Discount(t float64) float64 { return math.Exp(-f.R * t) }

// ZeroCurve linearly interpolates zero rates on pillar times and
// extrapolates flat beyond the last pillar.
type ZeroCurve struct {
	times []float64
	zeros []float64
	pl    interp.PiecewiseLinear
}

func NewZeroCurve(times, zeros []float64) (*ZeroCurve, error) {
	if len(times) != len(zeros) || len(times) < 2 {
		return nil, errs.Configf("zero curve needs at least 2 matching pillars, got %d times and %d rates", len(times), len(zeros))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errs.Configf("zero curve pillar times must be strictly increasing")
		}
	}
	zc := &ZeroCurve{times: times, zeros: zeros}
	if err := zc.pl.Fit(times, zeros); err != nil {
		return nil, err
	}
	return zc, nil
}

// NewZeroCurveFromDates builds a zero curve with pillar times computed from
// the reference date under the given day counter.
func NewZeroCurveFromDates(ref time.Time, dts []time.Time, zeros []float64, dc dates.DayCounter) (*ZeroCurve, error) {
	times := make([]float64, len(dts))
	for i, d := range dts {
		times[i] = dc.YearFraction(ref, d)
	}
	return NewZeroCurve(times, zeros)
}

func (zc *ZeroCurve) Rate(t float64) float64 {
	if t <= zc.times[0] {
		return zc.zeros[0]
	}
	if t >= zc.times[len(zc.times)-1] {
		return zc.zeros[len(zc.zeros)-1]
	}
	return zc.pl.Predict(t)
}

func (zc *ZeroCurve) Discount(t float64) float64 {
	return math.Exp(-zc.Rate(t) * t)
}
