package calib

import (
	"math"

	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/model"
	"github.com/banachtech/volfit/optim"
)

// Result reports the end of a calibration run. Non-convergence is not an
// error: the model retains the best-found parameter vector and the caller
// decides whether to accept the fit.
type Result struct {
	Params      []float64 // transformed solution vector
	Objective   float64   // weighted sum of squared vol errors
	Reason      optim.Reason
	Iterations  int
	Evaluations int
}

// Calibrate fits the model to the helpers' quotes by minimizing the
// weighted sum of squared calibration errors. Every helper must be bound to
// an engine backed by the model under calibration; each optimizer proposal
// mutates the model and re-prices all helpers.
func Calibrate(m model.Calibratable, helpers []*Helper, om optim.Optimizer, ec optim.EndCriteria) (Result, error) {
	if m == nil {
		return Result{}, errs.Configf("nil model")
	}
	if len(helpers) == 0 {
		return Result{}, errs.Configf("no calibration helpers given")
	}
	for i, h := range helpers {
		if h.eng == nil {
			return Result{}, errs.Configf("helper %d has no pricing engine", i)
		}
		if h.eng.Model() != m {
			return Result{}, errs.Configf("helper %d engine is not backed by the model under calibration", i)
		}
	}

	objective := func(p []float64) float64 {
		m.SetParams(p)
		sum := 0.0
		for _, h := range helpers {
			e, err := h.CalibrationError()
			if err != nil {
				return math.Inf(1)
			}
			sum += h.Weight * e * e
		}
		return sum
	}

	res, err := om.Minimize(objective, m.Params(), ec)
	if err != nil {
		return Result{Reason: optim.Failed}, err
	}
	// pin the model at the best point found, whatever the stop reason
	m.SetParams(res.X)
	return Result{
		Params:      res.X,
		Objective:   res.F,
		Reason:      res.Reason,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
	}, nil
}

// SumSquaredErrors aggregates helper errors in vol-point units (implied-vol
// differences times 100), the usual calibration diagnostic.
func SumSquaredErrors(helpers []*Helper) (float64, error) {
	sse := 0.0
	for _, h := range helpers {
		e, err := h.CalibrationError()
		if err != nil {
			return 0, err
		}
		d := e * 100.0
		sse += d * d
	}
	return sse, nil
}
