package calib

import (
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/quote"
	"github.com/banachtech/volfit/rates"
)

// Helper pairs one market implied-vol quote with a pricing engine and turns
// the pair into a scalar fit error. The error convention is the signed
// implied-vol difference: the Black vol recovered from the model price minus
// the quoted vol. Diagnostics scale it by 100 into vol points.
type Helper struct {
	Maturity dates.Period
	Strike   float64
	Vol      quote.Quote
	Weight   float64

	s0       quote.Quote
	riskFree rates.TermStructure
	dividend rates.TermStructure

	exercise time.Time
	t        float64

	eng engine.Engine
}

// NewHelper resolves the maturity tenor against the evaluation date under
// the calendar's Following convention and fixes the option time with the
// given day counter. Quotes remain observable: errors are recomputed from
// the live values on every call.
func NewHelper(maturity dates.Period, cal dates.Calendar, ctx *dates.Context, dc dates.DayCounter,
	s0 quote.Quote, strike float64, vol quote.Quote,
	riskFree, dividend rates.TermStructure) (*Helper, error) {

	if ctx == nil || s0 == nil || vol == nil || riskFree == nil || dividend == nil {
		return nil, errs.Configf("calibration helper needs context, spot, vol quote and curves")
	}
	if maturity.N <= 0 {
		return nil, errs.Domainf("negative option maturity tenor (%s) given", maturity)
	}
	exercise := cal.Advance(ctx.EvaluationDate(), maturity, dates.Following)
	t := dc.YearFraction(ctx.EvaluationDate(), exercise)
	return &Helper{
		Maturity: maturity,
		Strike:   strike,
		Vol:      vol,
		Weight:   1.0,
		s0:       s0,
		riskFree: riskFree,
		dividend: dividend,
		exercise: exercise,
		t:        t,
	}, nil
}

// SetPricingEngine rebinds the helper. Only type-level validation happens
// here; model identity is checked at calibration time.
func (h *Helper) SetPricingEngine(e engine.Engine) error {
	if e == nil {
		return errs.Configf("nil pricing engine")
	}
	h.eng = e
	return nil
}

func (h *Helper) Engine() engine.Engine { return h.eng }

func (h *Helper) Exercise() time.Time { return h.exercise }

// MarketValue is the Black price at the quoted implied volatility.
func (h *Helper) MarketValue() float64 {
	return engine.BlackPrice(engine.Call, h.Strike, h.s0.Value(), h.t,
		h.Vol.Value(), h.riskFree.Rate(h.t), h.dividend.Rate(h.t))
}

// ModelValue re-prices through the bound engine. Never cached: quotes and
// model parameters may have changed since the last call.
func (h *Helper) ModelValue() (float64, error) {
	if h.eng == nil {
		return 0, errs.Configf("no pricing engine set")
	}
	return h.eng.Price(engine.VanillaSpec{Type: engine.Call, Strike: h.Strike, Exercise: h.exercise})
}

// CalibrationError is the signed implied-vol discrepancy. Working in vol
// space keeps the quotes on a common scale: a raw price error would let the
// near-the-money maturities drown out the cheap far-out-of-the-money wings.
func (h *Helper) CalibrationError() (float64, error) {
	mv, err := h.ModelValue()
	if err != nil {
		return 0, err
	}
	iv, err := engine.ImpliedVol(engine.Call, h.Strike, h.s0.Value(), h.t,
		h.riskFree.Rate(h.t), h.dividend.Rate(h.t), mv)
	if err != nil {
		return 0, err
	}
	return iv - h.Vol.Value(), nil
}
