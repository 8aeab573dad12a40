package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNelderMeadQuadratic(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-2.0)*(x[0]-2.0) + (x[1]+3.0)*(x[1]+3.0)
	}
	ec := NewEndCriteria(1000, 100, 1e-10, 1e-10, 1e-10)
	res, err := NelderMead{}.Minimize(f, []float64{0, 0}, ec)
	require.NoError(t, err)
	require.True(t, res.Reason.Converged(), "stopped with: %s", res.Reason)
	require.InDelta(t, 2.0, res.X[0], 1e-4)
	require.InDelta(t, -3.0, res.X[1], 1e-4)
	require.Less(t, res.F, 1e-7)
	require.Greater(t, res.Iterations, 0)
	require.Greater(t, res.Evaluations, 0)
}

func TestStepToleranceTerminatesSearch(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-1.0)*(x[0]-1.0) + 2.0*(x[1]+0.5)*(x[1]+0.5)
	}
	// only the step criterion is armed
	ec := EndCriteria{MaxIterations: 10000, MaxStationaryIterations: 20, StepEpsilon: 1e-6}
	res, err := NelderMead{}.Minimize(f, []float64{5, 5}, ec)
	require.NoError(t, err)
	require.Equal(t, StepTolerance, res.Reason)
	require.InDelta(t, 1.0, res.X[0], 1e-4)
	require.InDelta(t, -0.5, res.X[1], 1e-4)
}

func TestIterationCapIsNotAnError(t *testing.T) {
	rosenbrock := func(x []float64) float64 {
		a := 1.0 - x[0]
		b := x[1] - x[0]*x[0]
		return a*a + 100.0*b*b
	}
	ec := NewEndCriteria(3, 1000, 1e-16, 1e-16, 1e-16)
	res, err := NelderMead{}.Minimize(rosenbrock, []float64{-1.2, 1.0}, ec)
	require.NoError(t, err)
	require.False(t, res.Reason.Converged())
	require.NotNil(t, res.X)
	require.False(t, math.IsNaN(res.F))
}

func TestReasonStrings(t *testing.T) {
	require.Equal(t, "function tolerance reached", FunctionTolerance.String())
	require.Equal(t, "maximum iterations exceeded", MaxIterations.String())
	require.False(t, MaxIterations.Converged())
	require.True(t, StepTolerance.Converged())
}
