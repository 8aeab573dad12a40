package engine

import (
	"math"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/model"
)

// JumpDiffusionEngine prices under a Merton-76 process as a
// Poisson-weighted series of Black-Scholes prices with jump-conditional
// volatility and drift. The diffusion volatility is read off the process's
// volatility surface at the option's (time, strike) coordinate.
type JumpDiffusionEngine struct {
	proc model.Merton76Process
	ctx  *dates.Context
	dc   dates.DayCounter

	// RelTolerance stops the series once the Poisson weight falls below
	// it; MaxTerms caps the series regardless.
	RelTolerance float64
	MaxTerms     int
}

func NewJumpDiffusionEngine(p model.Merton76Process, ctx *dates.Context, dc dates.DayCounter) (*JumpDiffusionEngine, error) {
	if p.Vol == nil || p.S0 == nil || ctx == nil {
		return nil, errs.Configf("jump diffusion engine needs a vol surface, a spot quote and an evaluation context")
	}
	return &JumpDiffusionEngine{proc: p, ctx: ctx, dc: dc, RelTolerance: 1e-10, MaxTerms: 1000}, nil
}

// Model returns nil: the Merton-76 process is a pricing description, not a
// calibratable model.
func (e *JumpDiffusionEngine) Model() model.Calibratable { return nil }

func (e *JumpDiffusionEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	if t <= 0 {
		return 0, errs.Domainf("option expired: non-positive time to maturity (%v)", t)
	}
	p := e.proc
	r := p.RiskFree.Rate(t)
	q := p.Dividend.Rate(t)
	s0 := p.S0.Value()
	sigma, err := p.Vol.Volatility(t, 0, spec.Strike, true)
	if err != nil {
		return 0, err
	}

	mbar := math.Exp(p.Nu+0.5*p.Delta*p.Delta) - 1
	lambdaPrime := p.Lambda * (1 + mbar)

	weight := math.Exp(-lambdaPrime * t)
	sum := 0.0
	for n := 0; n < e.MaxTerms; n++ {
		if n > 0 {
			weight *= lambdaPrime * t / float64(n)
			if weight < e.RelTolerance && float64(n) > lambdaPrime*t {
				break
			}
		}
		varN := sigma*sigma + float64(n)*p.Delta*p.Delta/t
		rN := r - p.Lambda*mbar + float64(n)*math.Log(1+mbar)/t
		sum += weight * BlackPrice(spec.Type, spec.Strike, s0, t, math.Sqrt(varN), rN, q)
	}
	return sum, nil
}
