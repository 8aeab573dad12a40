package engine

import (
	"math"
	"math/cmplx"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/model"
	"gonum.org/v1/gonum/integrate/quad"
)

const defaultIntegrationPoints = 128

// charExponent is the log characteristic function of ln S_T excluding the
// deterministic drift term i z (ln S0 + (r-q)T), evaluated at a possibly
// complex Fourier argument.
type charExponent func(z complex128) complex128

// AnalyticHestonEngine prices European options by Fourier inversion of the
// Heston characteristic function, integrating the two in-the-money
// probabilities with Gauss-Legendre on a mapped half-line.
type AnalyticHestonEngine struct {
	mdl    *model.Heston
	ctx    *dates.Context
	dc     dates.DayCounter
	points int
}

func NewAnalyticHestonEngine(m *model.Heston, ctx *dates.Context, dc dates.DayCounter, points int) (*AnalyticHestonEngine, error) {
	if m == nil || ctx == nil {
		return nil, errs.Configf("analytic heston engine needs a model and an evaluation context")
	}
	if points <= 0 {
		points = defaultIntegrationPoints
	}
	return &AnalyticHestonEngine{mdl: m, ctx: ctx, dc: dc, points: points}, nil
}

func (e *AnalyticHestonEngine) Model() model.Calibratable { return e.mdl }

func (e *AnalyticHestonEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	p := e.mdl.Process()
	exponent := hestonExponent(t, p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho)
	return transformPrice(spec, p.S0.Value(), t, p.RiskFree.Rate(t), p.Dividend.Rate(t), exponent, e.points)
}

// AnalyticBatesEngine extends the Heston transform with the lognormal-jump
// characteristic exponent.
type AnalyticBatesEngine struct {
	mdl    *model.Bates
	ctx    *dates.Context
	dc     dates.DayCounter
	points int
}

func NewAnalyticBatesEngine(m *model.Bates, ctx *dates.Context, dc dates.DayCounter, points int) (*AnalyticBatesEngine, error) {
	if m == nil || ctx == nil {
		return nil, errs.Configf("analytic bates engine needs a model and an evaluation context")
	}
	if points <= 0 {
		points = defaultIntegrationPoints
	}
	return &AnalyticBatesEngine{mdl: m, ctx: ctx, dc: dc, points: points}, nil
}

func (e *AnalyticBatesEngine) Model() model.Calibratable { return e.mdl }

func (e *AnalyticBatesEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	m := e.mdl
	p := m.Process()
	heston := hestonExponent(t, p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho)
	jump := jumpExponent(m.Lambda*t, m.Nu, m.Delta)
	exponent := func(z complex128) complex128 { return heston(z) + jump(z) }
	return transformPrice(spec, p.S0.Value(), t, p.RiskFree.Rate(t), p.Dividend.Rate(t), exponent, e.points)
}

// BatesDetJumpEngine prices the deterministic-jump-intensity variant: the
// jump term uses the integrated intensity instead of lambda*t.
type BatesDetJumpEngine struct {
	mdl    *model.BatesDetJump
	ctx    *dates.Context
	dc     dates.DayCounter
	points int
}

func NewBatesDetJumpEngine(m *model.BatesDetJump, ctx *dates.Context, dc dates.DayCounter, points int) (*BatesDetJumpEngine, error) {
	if m == nil || ctx == nil {
		return nil, errs.Configf("bates det-jump engine needs a model and an evaluation context")
	}
	if points <= 0 {
		points = defaultIntegrationPoints
	}
	return &BatesDetJumpEngine{mdl: m, ctx: ctx, dc: dc, points: points}, nil
}

func (e *BatesDetJumpEngine) Model() model.Calibratable { return e.mdl }

func (e *BatesDetJumpEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	m := e.mdl
	p := m.Process()
	heston := hestonExponent(t, p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho)
	jump := jumpExponent(m.IntegratedIntensity(t), m.Nu, m.Delta)
	exponent := func(z complex128) complex128 { return heston(z) + jump(z) }
	return transformPrice(spec, p.S0.Value(), t, p.RiskFree.Rate(t), p.Dividend.Rate(t), exponent, e.points)
}

// BatesDoubleExpEngine prices the double-exponential-jump variant of the
// Bates model through the same transform.
type BatesDoubleExpEngine struct {
	mdl    *model.BatesDoubleExp
	ctx    *dates.Context
	dc     dates.DayCounter
	points int
}

func NewBatesDoubleExpEngine(m *model.BatesDoubleExp, ctx *dates.Context, dc dates.DayCounter, points int) (*BatesDoubleExpEngine, error) {
	if m == nil || ctx == nil {
		return nil, errs.Configf("bates double-exp engine needs a model and an evaluation context")
	}
	if points <= 0 {
		points = defaultIntegrationPoints
	}
	return &BatesDoubleExpEngine{mdl: m, ctx: ctx, dc: dc, points: points}, nil
}

func (e *BatesDoubleExpEngine) Model() model.Calibratable { return e.mdl }

func (e *BatesDoubleExpEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	m := e.mdl
	if m.NuUp >= 1 {
		return 0, errs.Domainf("mean up-jump size (%v) must be below 1", m.NuUp)
	}
	p := m.Process()
	heston := hestonExponent(t, p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho)
	jump := doubleExpJumpExponent(m.Lambda*t, m.P, m.NuUp, m.NuDown)
	exponent := func(z complex128) complex128 { return heston(z) + jump(z) }
	return transformPrice(spec, p.S0.Value(), t, p.RiskFree.Rate(t), p.Dividend.Rate(t), exponent, e.points)
}

// BatesDoubleExpDetJumpEngine pairs the double-exponential jump law with the
// deterministic intensity path.
type BatesDoubleExpDetJumpEngine struct {
	mdl    *model.BatesDoubleExpDetJump
	ctx    *dates.Context
	dc     dates.DayCounter
	points int
}

func NewBatesDoubleExpDetJumpEngine(m *model.BatesDoubleExpDetJump, ctx *dates.Context, dc dates.DayCounter, points int) (*BatesDoubleExpDetJumpEngine, error) {
	if m == nil || ctx == nil {
		return nil, errs.Configf("bates double-exp det-jump engine needs a model and an evaluation context")
	}
	if points <= 0 {
		points = defaultIntegrationPoints
	}
	return &BatesDoubleExpDetJumpEngine{mdl: m, ctx: ctx, dc: dc, points: points}, nil
}

func (e *BatesDoubleExpDetJumpEngine) Model() model.Calibratable { return e.mdl }

func (e *BatesDoubleExpDetJumpEngine) Price(spec VanillaSpec) (float64, error) {
	t := e.dc.YearFraction(e.ctx.EvaluationDate(), spec.Exercise)
	m := e.mdl
	if m.NuUp >= 1 {
		return 0, errs.Domainf("mean up-jump size (%v) must be below 1", m.NuUp)
	}
	p := m.Process()
	heston := hestonExponent(t, p.V0, p.Kappa, p.Theta, p.Sigma, p.Rho)
	jump := doubleExpJumpExponent(m.IntegratedIntensity(t), m.P, m.NuUp, m.NuDown)
	exponent := func(z complex128) complex128 { return heston(z) + jump(z) }
	return transformPrice(spec, p.S0.Value(), t, p.RiskFree.Rate(t), p.Dividend.Rate(t), exponent, e.points)
}

// hestonExponent is the Heston log characteristic function in the
// branch-cut-safe formulation.
func hestonExponent(t, v0, kappa, theta, sigma, rho float64) charExponent {
	return func(z complex128) complex128 {
		iz := complex(0, 1) * z
		b := complex(kappa, 0)
		rs := complex(rho*sigma, 0)
		s2 := complex(sigma*sigma, 0)
		d := cmplx.Sqrt((rs*iz-b)*(rs*iz-b) + s2*(iz+z*z))
		g := (b - rs*iz - d) / (b - rs*iz + d)
		ed := cmplx.Exp(-d * complex(t, 0))
		c := complex(kappa*theta, 0) / s2 * ((b-rs*iz-d)*complex(t, 0) - 2*cmplx.Log((1-g*ed)/(1-g)))
		dd := (b - rs*iz - d) / s2 * (1 - ed) / (1 - g*ed)
		return c + dd*complex(v0, 0)
	}
}

// jumpExponent is the compensated compound-Poisson lognormal-jump term with
// integrated intensity lam (= lambda*T for a constant intensity).
func jumpExponent(lam, nu, delta float64) charExponent {
	mbar := math.Exp(nu+0.5*delta*delta) - 1
	return func(z complex128) complex128 {
		iz := complex(0, 1) * z
		cf := cmplx.Exp(iz*complex(nu, 0)+complex(0.5*delta*delta, 0)*iz*iz) - 1
		return complex(lam, 0) * (cf - iz*complex(mbar, 0))
	}
}

// doubleExpJumpExponent is the compensated compound-Poisson term for Kou
// double-exponential jumps with integrated intensity lam: up-jumps with
// mean size nuUp and probability p, down-jumps with mean size nuDown. The
// compensator is finite only for nuUp < 1.
func doubleExpJumpExponent(lam, p, nuUp, nuDown float64) charExponent {
	mbar := p/(1-nuUp) + (1-p)/(1+nuDown) - 1
	return func(z complex128) complex128 {
		iz := complex(0, 1) * z
		cf := complex(p, 0)/(1-iz*complex(nuUp, 0)) +
			complex(1-p, 0)/(1+iz*complex(nuDown, 0))
		return complex(lam, 0) * (cf - 1 - iz*complex(mbar, 0))
	}
}

// transformPrice evaluates the Heston-family inversion formula
//
//	call = e^{-rT} (F P1 - K P2),  Pj = 1/2 + (1/pi) Integral_0^inf gj(u) du
//
// and obtains puts by parity.
func transformPrice(spec VanillaSpec, s0, t, r, q float64, exponent charExponent, points int) (float64, error) {
	if t <= 0 {
		return 0, errs.Domainf("option expired: non-positive time to maturity (%v)", t)
	}
	if s0 <= 0 || spec.Strike <= 0 {
		return 0, errs.Domainf("non-positive spot (%v) or strike (%v)", s0, spec.Strike)
	}
	forward := s0 * math.Exp((r-q)*t)
	df := math.Exp(-r * t)
	x := math.Log(s0) + (r-q)*t
	lnK := math.Log(spec.Strike)

	phi := func(z complex128) complex128 {
		return cmplx.Exp(exponent(z) + complex(0, 1)*z*complex(x, 0))
	}

	// phi(-i) equals the forward by the martingale property, so P1 divides
	// by it analytically rather than numerically.
	p2 := 0.5 + invPi*integrateHalfLine(func(u float64) float64 {
		z := complex(u, 0)
		v := phi(z) * cmplx.Exp(complex(0, -u*lnK)) / (complex(0, 1) * z)
		return real(v)
	}, points)
	p1 := 0.5 + invPi*integrateHalfLine(func(u float64) float64 {
		z := complex(u, -1)
		v := phi(z) * cmplx.Exp(complex(0, -u*lnK)) / (complex(0, 1) * complex(u, 0) * complex(forward, 0))
		return real(v)
	}, points)

	call := df * (forward*p1 - spec.Strike*p2)
	if spec.Type == Call {
		return call, nil
	}
	return call - df*(forward-spec.Strike), nil
}

const invPi = 1.0 / math.Pi

// integrateHalfLine maps (0, inf) onto (0, 1) via u = x/(1-x) and applies
// fixed-order Gauss-Legendre. The nodes never touch the endpoints.
func integrateHalfLine(f func(float64) float64, points int) float64 {
	return quad.Fixed(func(x float64) float64 {
		om := 1 - x
		return f(x/om) / (om * om)
	}, 0, 1, points, quad.Legendre{}, 0)
}
