package engine

import (
	"math"

	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0.0, Sigma: 1.0}

// BlackFormula is the undiscounted Black price of a European option on a
// forward, with stdDev = vol*sqrt(T).
func BlackFormula(typ OptionType, strike, forward, stdDev float64) float64 {
	w := float64(typ)
	if stdDev <= 0 {
		return math.Max(w*(forward-strike), 0)
	}
	d1 := (math.Log(forward/strike) + 0.5*stdDev*stdDev) / stdDev
	d2 := d1 - stdDev
	return w * (forward*stdNormal.CDF(w*d1) - strike*stdNormal.CDF(w*d2))
}

// BlackPrice discounts the spot-based Black-Scholes price with continuous
// rates r and dividend yield q.
func BlackPrice(typ OptionType, strike, s0, t, vol, r, q float64) float64 {
	forward := s0 * math.Exp((r-q)*t)
	return math.Exp(-r*t) * BlackFormula(typ, strike, forward, vol*math.Sqrt(t))
}

// BlackVega is the spot Black-Scholes vega.
func BlackVega(strike, s0, t, vol, r, q float64) float64 {
	sd := vol * math.Sqrt(t)
	forward := s0 * math.Exp((r-q)*t)
	d1 := (math.Log(forward/strike) + 0.5*sd*sd) / sd
	return s0 * math.Exp(-q*t) * stdNormal.Prob(d1) * math.Sqrt(t)
}

// ImpliedVol inverts the Black-Scholes price by Newton iteration with a
// bisection fallback when vega collapses.
func ImpliedVol(typ OptionType, strike, s0, t, r, q, price float64) (float64, error) {
	if t <= 0 {
		return 0, errs.Domainf("non-positive maturity (%v) given", t)
	}
	intrinsic := BlackPrice(typ, strike, s0, t, 0, r, q)
	if price < intrinsic {
		return 0, errs.Domainf("price (%v) below intrinsic value (%v)", price, intrinsic)
	}
	sigma := 0.5
	for i := 0; i < 100; i++ {
		diff := BlackPrice(typ, strike, s0, t, sigma, r, q) - price
		if math.Abs(diff) < 1e-12 {
			return sigma, nil
		}
		vega := BlackVega(strike, s0, t, sigma, r, q)
		if vega < 1e-12 {
			break
		}
		step := diff / vega
		if math.Abs(step) > sigma/2 {
			step = math.Copysign(sigma/2, step)
		}
		sigma -= step
	}
	// bisection on [1e-6, 10]
	lo, hi := 1e-6, 10.0
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if BlackPrice(typ, strike, s0, t, mid, r, q) > price {
			hi = mid
		} else {
			lo = mid
		}
	}
	sigma = 0.5 * (lo + hi)
	if math.Abs(BlackPrice(typ, strike, s0, t, sigma, r, q)-price) > 1e-6*math.Max(price, 1) {
		return sigma, errs.Domainf("implied vol did not converge for price %v", price)
	}
	return sigma, nil
}
