package model

import "math"

// Bates extends Heston with lognormal jumps. The jump parameters are seeded
// from companion values at construction and calibrate independently.
// Parameter order appends [lambda, nu, delta] to the Heston vector.
type Bates struct {
	Heston

	Lambda float64
	Nu     float64
	Delta  float64
}

// NewBates seeds the diffusion parameters from the process and the jump
// parameters from the given values.
func NewBates(p HestonProcess, lambda, nu, delta float64) *Bates {
	m := &Bates{Lambda: lambda, Nu: nu, Delta: delta}
	m.Heston = *NewHeston(p)
	return m
}

// NewBatesFromProcess takes all eight parameters from a Bates process.
func NewBatesFromProcess(p BatesProcess) *Bates {
	return NewBates(p.HestonProcess, p.Lambda, p.Nu, p.Delta)
}

func (m *Bates) Params() []float64 {
	return append(m.Heston.Params(), toLog(m.Lambda), m.Nu, toLog(m.Delta))
}

func (m *Bates) SetParams(p []float64) {
	m.setHeston(p[:5])
	m.Lambda = fromLog(p[5])
	m.Nu = p[6]
	m.Delta = fromLog(p[7])
	m.Notify()
}

// BatesDetJump drives the jump intensity along a deterministic
// mean-reverting path lambda(t) = thetaLambda + (lambda - thetaLambda)
// exp(-kappaLambda t). With lambda = thetaLambda it reduces to Bates.
// Parameter order appends [kappaLambda, thetaLambda].
type BatesDetJump struct {
	Bates

	KappaLambda float64
	ThetaLambda float64
}

func NewBatesDetJump(p HestonProcess, lambda, nu, delta, kappaLambda, thetaLambda float64) *BatesDetJump {
	m := &BatesDetJump{KappaLambda: kappaLambda, ThetaLambda: thetaLambda}
	m.Bates = *NewBates(p, lambda, nu, delta)
	return m
}

func (m *BatesDetJump) Params() []float64 {
	return append(m.Bates.Params(), toLog(m.KappaLambda), toLog(m.ThetaLambda))
}

func (m *BatesDetJump) SetParams(p []float64) {
	m.setHeston(p[:5])
	m.Lambda = fromLog(p[5])
	m.Nu = p[6]
	m.Delta = fromLog(p[7])
	m.KappaLambda = fromLog(p[8])
	m.ThetaLambda = fromLog(p[9])
	m.Notify()
}

// IntegratedIntensity is the expected number of jumps up to t.
func (m *BatesDetJump) IntegratedIntensity(t float64) float64 {
	return m.ThetaLambda*t + (m.Lambda-m.ThetaLambda)*(1-math.Exp(-m.KappaLambda*t))/m.KappaLambda
}

// BatesDoubleExp replaces the lognormal jump law with the Kou
// double-exponential one: with probability P a jump is upward, exponential
// with mean log-size NuUp, otherwise downward with mean log-size NuDown.
// NuUp must stay below 1 for the jump compensator to be finite. Parameter
// order appends [lambda, nuUp, nuDown, p] to the Heston vector.
type BatesDoubleExp struct {
	Heston

	Lambda float64
	NuUp   float64
	NuDown float64
	P      float64
}

func NewBatesDoubleExp(proc HestonProcess, lambda, nuUp, nuDown, p float64) *BatesDoubleExp {
	m := &BatesDoubleExp{Lambda: lambda, NuUp: nuUp, NuDown: nuDown, P: p}
	m.Heston = *NewHeston(proc)
	return m
}

func (m *BatesDoubleExp) Params() []float64 {
	return append(m.Heston.Params(), toLog(m.Lambda), toLog(m.NuUp), toLog(m.NuDown), toAtanh(2*m.P-1))
}

func (m *BatesDoubleExp) SetParams(p []float64) {
	m.setHeston(p[:5])
	m.Lambda = fromLog(p[5])
	m.NuUp = fromLog(p[6])
	m.NuDown = fromLog(p[7])
	m.P = 0.5 * (1 + fromAtanh(p[8]))
	m.Notify()
}

// BatesDoubleExpDetJump combines the double-exponential jump law with the
// deterministic mean-reverting intensity path of BatesDetJump. Parameter
// order appends [kappaLambda, thetaLambda].
type BatesDoubleExpDetJump struct {
	BatesDoubleExp

	KappaLambda float64
	ThetaLambda float64
}

func NewBatesDoubleExpDetJump(proc HestonProcess, lambda, nuUp, nuDown, p, kappaLambda, thetaLambda float64) *BatesDoubleExpDetJump {
	m := &BatesDoubleExpDetJump{KappaLambda: kappaLambda, ThetaLambda: thetaLambda}
	m.BatesDoubleExp = *NewBatesDoubleExp(proc, lambda, nuUp, nuDown, p)
	return m
}

func (m *BatesDoubleExpDetJump) Params() []float64 {
	return append(m.BatesDoubleExp.Params(), toLog(m.KappaLambda), toLog(m.ThetaLambda))
}

func (m *BatesDoubleExpDetJump) SetParams(p []float64) {
	m.setHeston(p[:5])
	m.Lambda = fromLog(p[5])
	m.NuUp = fromLog(p[6])
	m.NuDown = fromLog(p[7])
	m.P = 0.5 * (1 + fromAtanh(p[8]))
	m.KappaLambda = fromLog(p[9])
	m.ThetaLambda = fromLog(p[10])
	m.Notify()
}

// IntegratedIntensity is the expected number of jumps up to t.
func (m *BatesDoubleExpDetJump) IntegratedIntensity(t float64) float64 {
	return m.ThetaLambda*t + (m.Lambda-m.ThetaLambda)*(1-math.Exp(-m.KappaLambda*t))/m.KappaLambda
}
