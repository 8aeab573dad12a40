package model

import (
	"github.com/banachtech/volfit/quote"
	"github.com/banachtech/volfit/rates"
	"github.com/banachtech/volfit/vol"
)

// HestonProcess describes the square-root stochastic variance diffusion
//
//	dS = (r-q) S dt + sqrt(v) S dW1
//	dv = kappa (theta - v) dt + sigma sqrt(v) dW2,  corr(dW1,dW2) = rho
type HestonProcess struct {
	RiskFree rates.TermStructure
	Dividend rates.TermStructure
	S0       quote.Quote

	V0    float64 // initial variance
	Kappa float64 // mean-reversion speed
	Theta float64 // long-run variance
	Sigma float64 // vol-of-vol
	Rho   float64 // spot/variance correlation
}

// BatesProcess adds compound-Poisson lognormal jumps to the Heston
// diffusion.
type BatesProcess struct {
	HestonProcess

	Lambda float64 // jump intensity
	Nu     float64 // mean log-jump size
	Delta  float64 // log-jump volatility
}

// Merton76Process is a Black-Scholes diffusion with lognormal jumps. The
// diffusion volatility is read off a volatility surface at the priced
// option's coordinates.
type Merton76Process struct {
	RiskFree rates.TermStructure
	Dividend rates.TermStructure
	S0       quote.Quote
	Vol      *vol.Surface

	Lambda float64
	Nu     float64
	Delta  float64
}
