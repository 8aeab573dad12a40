package model

import (
	"math"
	"testing"

	"github.com/banachtech/volfit/quote"
	"github.com/banachtech/volfit/rates"
	"github.com/stretchr/testify/require"
)

func testProcess() HestonProcess {
	return HestonProcess{
		RiskFree: rates.Flat(0.04),
		Dividend: rates.Flat(0.0),
		S0:       quote.NewSimple(100.0),
		V0:       0.0776,
		Kappa:    1.88,
		Theta:    0.0919,
		Sigma:    0.6526,
		Rho:      -0.9549,
	}
}

type countingObserver struct{ n int }

func (o *countingObserver) Update() { o.n++ }

func TestTransforms(t *testing.T) {
	for _, x := range []float64{1e-6, 0.04, 1.0, 42.0} {
		require.InDelta(t, x, fromLog(toLog(x)), 1e-12*x)
	}
	for _, x := range []float64{-0.99, -0.5, 0.0, 0.5, 0.99} {
		require.InDelta(t, x, fromAtanh(toAtanh(x)), 1e-12)
	}
	// corners stay finite
	require.False(t, math.IsInf(toAtanh(1.0), 0))
	require.False(t, math.IsInf(toAtanh(-1.0), 0))
}

func TestHestonParamsRoundTrip(t *testing.T) {
	m := NewHeston(testProcess())
	p := m.Params()
	require.Len(t, p, 5)

	m2 := NewHeston(testProcess())
	m2.SetParams(p)
	require.InDelta(t, m.Theta, m2.Theta, 1e-12)
	require.InDelta(t, m.Kappa, m2.Kappa, 1e-12)
	require.InDelta(t, m.Sigma, m2.Sigma, 1e-12)
	require.InDelta(t, m.Rho, m2.Rho, 1e-12)
	require.InDelta(t, m.V0, m2.V0, 1e-12)
}

func TestBatesParamsRoundTrip(t *testing.T) {
	m := NewBates(testProcess(), 2.0, -0.2, 0.25)
	p := m.Params()
	require.Len(t, p, 8)

	m2 := NewBates(testProcess(), 1.0, 0.0, 0.1)
	m2.SetParams(p)
	require.InDelta(t, 2.0, m2.Lambda, 1e-12)
	require.InDelta(t, -0.2, m2.Nu, 1e-12)
	require.InDelta(t, 0.25, m2.Delta, 1e-12)
	require.InDelta(t, m.Rho, m2.Rho, 1e-12)
}

func TestBatesDetJumpParams(t *testing.T) {
	m := NewBatesDetJump(testProcess(), 0.2, -0.1, 0.1, 1.0, 0.3)
	p := m.Params()
	require.Len(t, p, 10)

	m2 := NewBatesDetJump(testProcess(), 1.0, 0.0, 0.2, 2.0, 0.1)
	m2.SetParams(p)
	require.InDelta(t, 1.0, m2.KappaLambda, 1e-12)
	require.InDelta(t, 0.3, m2.ThetaLambda, 1e-12)
}

func TestBatesDoubleExpParamsRoundTrip(t *testing.T) {
	m := NewBatesDoubleExp(testProcess(), 1.5, 0.08, 0.12, 0.4)
	p := m.Params()
	require.Len(t, p, 9)

	m2 := NewBatesDoubleExp(testProcess(), 1.0, 0.1, 0.1, 0.5)
	m2.SetParams(p)
	require.InDelta(t, 1.5, m2.Lambda, 1e-12)
	require.InDelta(t, 0.08, m2.NuUp, 1e-12)
	require.InDelta(t, 0.12, m2.NuDown, 1e-12)
	require.InDelta(t, 0.4, m2.P, 1e-12)

	// the jump mix stays a probability whatever the optimizer proposes
	p[8] = 50.0
	m2.SetParams(p)
	require.Greater(t, m2.P, 0.0)
	require.Less(t, m2.P, 1.0)
}

func TestBatesDoubleExpDetJumpParams(t *testing.T) {
	m := NewBatesDoubleExpDetJump(testProcess(), 0.5, 0.08, 0.12, 0.4, 2.0, 0.3)
	p := m.Params()
	require.Len(t, p, 11)

	m2 := NewBatesDoubleExpDetJump(testProcess(), 1.0, 0.1, 0.1, 0.5, 1.0, 0.1)
	m2.SetParams(p)
	require.InDelta(t, 2.0, m2.KappaLambda, 1e-12)
	require.InDelta(t, 0.3, m2.ThetaLambda, 1e-12)

	require.InDelta(t, 0.0, m.IntegratedIntensity(0.0), 1e-15)
	// with lambda == thetaLambda the intensity is constant
	c := NewBatesDoubleExpDetJump(testProcess(), 0.3, 0.08, 0.12, 0.4, 2.0, 0.3)
	require.InDelta(t, 0.3*5.0, c.IntegratedIntensity(5.0), 1e-12)
}

func TestIntegratedIntensity(t *testing.T) {
	m := NewBatesDetJump(testProcess(), 0.5, -0.1, 0.1, 2.0, 0.3)

	require.InDelta(t, 0.0, m.IntegratedIntensity(0.0), 1e-15)

	// with lambda == thetaLambda the intensity is constant
	c := NewBatesDetJump(testProcess(), 0.3, -0.1, 0.1, 2.0, 0.3)
	require.InDelta(t, 0.3*5.0, c.IntegratedIntensity(5.0), 1e-12)

	// long horizon is dominated by the long-run level
	longRun := m.IntegratedIntensity(100.0) / 100.0
	require.InDelta(t, 0.3, longRun, 1e-2)
}

func TestSetParamsNotifies(t *testing.T) {
	m := NewBates(testProcess(), 1.0, -0.1, 0.2)
	obs := &countingObserver{}
	m.Attach(obs)

	m.SetParams(m.Params())
	require.Equal(t, 1, obs.n)

	m.Detach(obs)
	m.SetParams(m.Params())
	require.Equal(t, 1, obs.n)
}

func TestProcessReflectsCurrentParams(t *testing.T) {
	m := NewHeston(testProcess())
	p := m.Params()
	p[4] = toLog(0.123) // v0
	m.SetParams(p)
	require.InDelta(t, 0.123, m.Process().V0, 1e-12)
	require.Equal(t, 100.0, m.Process().S0.Value())
}
