package optim

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Reason is the machine-readable termination cause of a minimization.
// Hitting an iteration or evaluation cap is a legitimate outcome, not an
// error: the best-found point is retained regardless.
type Reason int

const (
	None Reason = iota
	FunctionTolerance
	StepTolerance
	GradientTolerance
	MaxIterations
	MaxEvaluations
	Failed
)

func (r Reason) String() string {
	switch r {
	case FunctionTolerance:
		return "function tolerance reached"
	case StepTolerance:
		return "step tolerance reached"
	case GradientTolerance:
		return "gradient tolerance reached"
	case MaxIterations:
		return "maximum iterations exceeded"
	case MaxEvaluations:
		return "maximum evaluations exceeded"
	case Failed:
		return "failed"
	default:
		return "none"
	}
}

// Converged reports whether the run stopped on a tolerance rather than a
// cap or a failure.
func (r Reason) Converged() bool {
	switch r {
	case FunctionTolerance, StepTolerance, GradientTolerance:
		return true
	}
	return false
}

// EndCriteria bundles the externally configurable termination thresholds.
// The run stops on whichever fires first. FunctionEpsilon and StepEpsilon
// must hold for MaxStationaryIterations consecutive iterations before they
// fire; GradientEpsilon only applies to gradient-based methods and is
// ignored by the simplex method.
type EndCriteria struct {
	MaxIterations           int
	MaxStationaryIterations int
	FunctionEpsilon         float64
	GradientEpsilon         float64
	StepEpsilon             float64
}

// NewEndCriteria mirrors the usual calibration defaults.
func NewEndCriteria(maxIter, maxStationary int, funcEps, gradEps, stepEps float64) EndCriteria {
	return EndCriteria{
		MaxIterations:           maxIter,
		MaxStationaryIterations: maxStationary,
		FunctionEpsilon:         funcEps,
		GradientEpsilon:         gradEps,
		StepEpsilon:             stepEps,
	}
}

// Result carries the best point found and why the search stopped.
type Result struct {
	X           []float64
	F           float64
	Reason      Reason
	Iterations  int
	Evaluations int
}

// Optimizer is the black-box minimizer boundary: objective in, solution and
// termination reason out.
type Optimizer interface {
	Minimize(f func([]float64) float64, x0 []float64, ec EndCriteria) (Result, error)
}

// NelderMead minimizes with the gonum downhill-simplex method.
type NelderMead struct{}

func (NelderMead) Minimize(f func([]float64) float64, x0 []float64, ec EndCriteria) (Result, error) {
	return runGonum(&optimize.NelderMead{}, f, x0, ec)
}

func runGonum(method optimize.Method, f func([]float64) float64, x0 []float64, ec EndCriteria) (Result, error) {
	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		MajorIterations:   ec.MaxIterations,
		GradientThreshold: ec.GradientEpsilon,
		Converger: &converger{
			fc: optimize.FunctionConverge{
				Absolute:   ec.FunctionEpsilon,
				Iterations: ec.MaxStationaryIterations,
			},
			step: ec.StepEpsilon,
			n:    ec.MaxStationaryIterations,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, method)
	if res == nil {
		return Result{Reason: Failed}, err
	}
	out := Result{
		X:           res.X,
		F:           res.F,
		Reason:      mapStatus(res.Status),
		Iterations:  res.MajorIterations,
		Evaluations: res.FuncEvaluations,
	}
	// caps are normal termination and carry the best point found; only a
	// genuine failure propagates the error
	if out.Reason == Failed && err != nil {
		return out, err
	}
	return out, nil
}

// converger layers a step test on top of gonum's function convergence so
// StepEpsilon participates even for methods that never report gradients:
// when the best point moves by less than StepEpsilon in every coordinate for
// n consecutive iterations, the search stops on StepConvergence.
type converger struct {
	fc   optimize.FunctionConverge
	step float64
	n    int

	prev  []float64
	stall int
}

func (c *converger) Init(dim int) {
	c.fc.Init(dim)
	c.prev = nil
	c.stall = 0
}

func (c *converger) Converged(loc *optimize.Location) optimize.Status {
	if s := c.fc.Converged(loc); s != optimize.NotTerminated {
		return s
	}
	if c.step <= 0 || c.n <= 0 {
		return optimize.NotTerminated
	}
	if c.prev == nil {
		c.prev = append([]float64(nil), loc.X...)
		return optimize.NotTerminated
	}
	move := 0.0
	for i, x := range loc.X {
		move = math.Max(move, math.Abs(x-c.prev[i]))
	}
	copy(c.prev, loc.X)
	if move < c.step {
		c.stall++
		if c.stall >= c.n {
			return optimize.StepConvergence
		}
	} else {
		c.stall = 0
	}
	return optimize.NotTerminated
}

func mapStatus(s optimize.Status) Reason {
	switch s {
	case optimize.FunctionConvergence, optimize.FunctionThreshold, optimize.MethodConverge, optimize.Success:
		return FunctionTolerance
	case optimize.StepConvergence:
		return StepTolerance
	case optimize.GradientThreshold:
		return GradientTolerance
	case optimize.IterationLimit, optimize.RuntimeLimit:
		return MaxIterations
	case optimize.FunctionEvaluationLimit, optimize.GradientEvaluationLimit:
		return MaxEvaluations
	default:
		return Failed
	}
}
