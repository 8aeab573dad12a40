package vol

import "github.com/banachtech/volfit/dates"

// FlatBackend quotes one volatility everywhere inside a wide but finite
// domain.
type FlatBackend struct {
	Vol      float64
	MaxTime  float64
	MaxTenor dates.Period
	MinK     float64
	MaxK     float64
}

// NewFlatBackend uses generous defaults: 100y option times, 100y tenors and
// strikes up to 1e8.
func NewFlatBackend(v float64) FlatBackend {
	return FlatBackend{
		Vol:      v,
		MaxTime:  100.0,
		MaxTenor: dates.NewPeriod(100, dates.YearUnit),
		MinK:     0.0,
		MaxK:     1.0e8,
	}
}

func (b FlatBackend) MaxOptionTime() float64               { return b.MaxTime }
func (b FlatBackend) MaxInstrumentTenor() dates.Period     { return b.MaxTenor }
func (b FlatBackend) MinStrike() float64                   { return b.MinK }
func (b FlatBackend) MaxStrike() float64                   { return b.MaxK }
func (b FlatBackend) VolatilityAt(t, l, k float64) float64 { return b.Vol }

func (b FlatBackend) SmileSectionAt(t, l float64) SmileSection {
	return FlatSmile{Vol: b.Vol, MinK: b.MinK, MaxK: b.MaxK}
}
