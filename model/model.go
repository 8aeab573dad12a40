package model

import (
	"math"

	"github.com/banachtech/volfit/quote"
)

// Calibratable is the optimizer's view of a parametric model: a parameter
// vector mapped to the unconstrained domain (-Inf, Inf), plus observer
// registration so bound engines and instruments learn about mutations.
type Calibratable interface {
	// Params returns the transformed parameter vector.
	Params() []float64
	// SetParams decodes a transformed vector, mutates the model and
	// notifies observers.
	SetParams([]float64)
	Attach(quote.Observer)
	Detach(quote.Observer)
}

// Positive parameters ride through log space, correlations through atanh,
// so the minimizer roams freely while the model stays in domain.

func toLog(x float64) float64 { return math.Log(x) }

func fromLog(x float64) float64 { return math.Exp(x) }

func toAtanh(x float64) float64 {
	// keep the transform finite at the corners
	if x >= 1 {
		x = 1 - 1e-12
	}
	if x <= -1 {
		x = -1 + 1e-12
	}
	return math.Atanh(x)
}

func fromAtanh(x float64) float64 { return math.Tanh(x) }
