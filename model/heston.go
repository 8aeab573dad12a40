package model

import "github.com/banachtech/volfit/quote"

// Heston holds the five calibratable Heston parameters, seeded from a
// process description at construction. Parameter order follows
// [theta, kappa, sigma, rho, v0].
type Heston struct {
	quote.Observable

	proc HestonProcess

	V0    float64
	Kappa float64
	Theta float64
	Sigma float64
	Rho   float64
}

// NewHeston seeds the parameter vector from the process. The process is
// kept for its curves and spot quote; the parameters evolve independently
// afterwards.
func NewHeston(p HestonProcess) *Heston {
	return &Heston{
		proc:  p,
		V0:    p.V0,
		Kappa: p.Kappa,
		Theta: p.Theta,
		Sigma: p.Sigma,
		Rho:   p.Rho,
	}
}

// Process returns the process description with the current parameters
// substituted in.
func (m *Heston) Process() HestonProcess {
	p := m.proc
	p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho = m.V0, m.Kappa, m.Theta, m.Sigma, m.Rho
	return p
}

func (m *Heston) Params() []float64 {
	return []float64{toLog(m.Theta), toLog(m.Kappa), toLog(m.Sigma), toAtanh(m.Rho), toLog(m.V0)}
}

func (m *Heston) SetParams(p []float64) {
	m.setHeston(p)
	m.Notify()
}

func (m *Heston) setHeston(p []float64) {
	m.Theta = fromLog(p[0])
	m.Kappa = fromLog(p[1])
	m.Sigma = fromLog(p[2])
	m.Rho = fromAtanh(p[3])
	m.V0 = fromLog(p[4])
}
