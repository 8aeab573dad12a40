package vol

import (
	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/interp"
)

// SmileSection maps strike to volatility at one fixed
// (optionTime, instrumentLength) coordinate. Sections are produced on
// demand by a surface backend and never stored.
type SmileSection interface {
	Volatility(strike float64) float64
	MinStrike() float64
	MaxStrike() float64
}

// FlatSmile is a strike-independent section.
type FlatSmile struct {
	Vol  float64
	MinK float64
	MaxK float64
}

func (s FlatSmile) Volatility(strike float64) float64 { return s.Vol }
func (s FlatSmile) MinStrike() float64                { return s.MinK }
func (s FlatSmile) MaxStrike() float64                { return s.MaxK }

// InterpolatedSmile linearly interpolates quoted vols across strikes and
// extrapolates flat outside the quoted range.
type InterpolatedSmile struct {
	strikes []float64
	pl      interp.PiecewiseLinear
}

func NewInterpolatedSmile(strikes, vols []float64) (*InterpolatedSmile, error) {
	// the interpolator panics rather than erroring on degenerate input
	if len(strikes) < 2 {
		return nil, errs.Configf("smile needs at least two strikes, got %d", len(strikes))
	}
	if len(strikes) != len(vols) {
		return nil, errs.Configf("%d strikes against %d vols", len(strikes), len(vols))
	}
	s := &InterpolatedSmile{strikes: strikes}
	if err := s.pl.Fit(strikes, vols); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InterpolatedSmile) Volatility(strike float64) float64 {
	if strike <= s.strikes[0] {
		strike = s.strikes[0]
	}
	if strike >= s.strikes[len(s.strikes)-1] {
		strike = s.strikes[len(s.strikes)-1]
	}
	return s.pl.Predict(strike)
}

func (s *InterpolatedSmile) MinStrike() float64 { return s.strikes[0] }
func (s *InterpolatedSmile) MaxStrike() float64 { return s.strikes[len(s.strikes)-1] }
