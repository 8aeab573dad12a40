package calib

import (
	"math"
	"testing"
	"time"

	"github.com/banachtech/volfit/data"
	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/errs"
	"github.com/banachtech/volfit/model"
	"github.com/banachtech/volfit/optim"
	"github.com/banachtech/volfit/quote"
	"github.com/banachtech/volfit/rates"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(dates.Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func daxSetup(t *testing.T) (data.Market, *dates.Context, dates.Calendar, dates.DayCounter, rates.TermStructure, rates.TermStructure) {
	t.Helper()
	market := data.DAXJuly2002()
	ctx := dates.NewContext(market.Settlement)
	cal := dates.TARGET(2000, 2010)
	dc := dates.Act365Fixed
	riskFree, err := market.RiskFreeCurve(dc)
	require.NoError(t, err)
	return market, ctx, cal, dc, riskFree, rates.Flat(market.DividendRate)
}

func daxHelpers(t *testing.T, market data.Market, ctx *dates.Context, cal dates.Calendar, dc dates.DayCounter,
	riskFree, dividend rates.TermStructure, eng engine.Engine) []*Helper {
	t.Helper()
	s0 := quote.NewSimple(market.S0)
	tenors := market.MaturityTenors()
	var helpers []*Helper
	for i, strike := range market.Strikes {
		for j, tenor := range tenors {
			v := quote.NewSimple(market.Vols.At(i, j))
			h, err := NewHelper(tenor, cal, ctx, dc, s0, strike, v, riskFree, dividend)
			require.NoError(t, err)
			require.NoError(t, h.SetPricingEngine(eng))
			helpers = append(helpers, h)
		}
	}
	return helpers
}

func TestHelperValidation(t *testing.T) {
	_, ctx, cal, dc, riskFree, dividend := daxSetup(t)
	s0 := quote.NewSimple(100.0)
	v := quote.NewSimple(0.3)

	_, err := NewHelper(dates.NewPeriod(6, dates.MonthUnit), cal, nil, dc, s0, 100.0, v, riskFree, dividend)
	require.Error(t, err)
	require.True(t, errs.IsConfig(err))

	_, err = NewHelper(dates.NewPeriod(-1, dates.MonthUnit), cal, ctx, dc, s0, 100.0, v, riskFree, dividend)
	require.Error(t, err)
	require.True(t, errs.IsDomain(err))

	h, err := NewHelper(dates.NewPeriod(6, dates.MonthUnit), cal, ctx, dc, s0, 100.0, v, riskFree, dividend)
	require.NoError(t, err)
	require.Error(t, h.SetPricingEngine(nil))
	_, err = h.ModelValue()
	require.Error(t, err)
}

func TestMarketValueIsBlackPrice(t *testing.T) {
	_, ctx, cal, dc, riskFree, dividend := daxSetup(t)
	s0 := quote.NewSimple(4468.17)
	v := quote.NewSimple(0.28)
	tenor := dates.NewPeriod(24, dates.WeekUnit)

	h, err := NewHelper(tenor, cal, ctx, dc, s0, 4500.0, v, riskFree, dividend)
	require.NoError(t, err)

	tt := dc.YearFraction(ctx.EvaluationDate(), h.Exercise())
	expected := engine.BlackPrice(engine.Call, 4500.0, 4468.17, tt, 0.28, riskFree.Rate(tt), dividend.Rate(tt))
	require.InDelta(t, expected, h.MarketValue(), 1e-12)
}

func TestCalibrationErrorIsVolDifference(t *testing.T) {
	market, ctx, cal, dc, riskFree, dividend := daxSetup(t)

	proc := model.HestonProcess{
		RiskFree: riskFree, Dividend: dividend, S0: quote.NewSimple(market.S0),
		V0: 0.0433, Kappa: 1.0, Theta: 0.0433, Sigma: 1.0, Rho: 0.0,
	}
	mdl := model.NewBates(proc, 1.1098, -0.1285, 0.1702)
	eng, err := engine.NewAnalyticBatesEngine(mdl, ctx, dc, 64)
	require.NoError(t, err)
	helpers := daxHelpers(t, market, ctx, cal, dc, riskFree, dividend, eng)

	// the highest strike at the shortest maturity: its market price is tiny,
	// so a price-based error would blow up while the vol error stays tame
	h := helpers[96]
	require.Equal(t, 5600.0, h.Strike)
	require.Equal(t, dates.NewPeriod(2, dates.WeekUnit), h.Maturity)

	mv, err := h.ModelValue()
	require.NoError(t, err)
	tt := dc.YearFraction(ctx.EvaluationDate(), h.Exercise())
	iv, err := engine.ImpliedVol(engine.Call, h.Strike, market.S0, tt,
		riskFree.Rate(tt), dividend.Rate(tt), mv)
	require.NoError(t, err)

	e, err := h.CalibrationError()
	require.NoError(t, err)
	require.InDelta(t, iv-h.Vol.Value(), e, 1e-12)
	require.Less(t, math.Abs(e), 1.0)
}

func TestCalibrateRejectsForeignEngine(t *testing.T) {
	market, ctx, cal, dc, riskFree, dividend := daxSetup(t)

	proc := model.HestonProcess{
		RiskFree: riskFree, Dividend: dividend, S0: quote.NewSimple(market.S0),
		V0: 0.0433, Kappa: 1.0, Theta: 0.0433, Sigma: 1.0, Rho: 0.0,
	}
	bound := model.NewBates(proc, 1.1098, -0.1285, 0.1702)
	other := model.NewBates(proc, 1.1098, -0.1285, 0.1702)

	eng, err := engine.NewAnalyticBatesEngine(bound, ctx, dc, 64)
	require.NoError(t, err)
	helpers := daxHelpers(t, market, ctx, cal, dc, riskFree, dividend, eng)

	_, err = Calibrate(other, helpers[:4], optim.NelderMead{}, optim.NewEndCriteria(10, 5, 1e-8, 1e-8, 1e-8))
	require.Error(t, err)
	require.True(t, errs.IsConfig(err))
}

func TestCalibrateInputValidation(t *testing.T) {
	_, err := Calibrate(nil, nil, optim.NelderMead{}, optim.EndCriteria{})
	require.Error(t, err)

	m := model.NewBates(model.HestonProcess{
		RiskFree: rates.Flat(0.04), Dividend: rates.Flat(0.0), S0: quote.NewSimple(100.0),
		V0: 0.04, Kappa: 1.0, Theta: 0.04, Sigma: 0.5, Rho: 0.0,
	}, 1.0, -0.1, 0.2)
	_, err = Calibrate(m, nil, optim.NelderMead{}, optim.EndCriteria{})
	require.Error(t, err)
}

func TestDAXCalibration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full surface calibration in short mode")
	}
	market, ctx, cal, dc, riskFree, dividend := daxSetup(t)

	proc := model.HestonProcess{
		RiskFree: riskFree, Dividend: dividend, S0: quote.NewSimple(market.S0),
		V0: 0.0433, Kappa: 1.0, Theta: 0.0433, Sigma: 1.0, Rho: 0.0,
	}
	mdl := model.NewBates(proc, 1.1098, -0.1285, 0.1702)
	eng, err := engine.NewAnalyticBatesEngine(mdl, ctx, dc, 64)
	require.NoError(t, err)

	helpers := daxHelpers(t, market, ctx, cal, dc, riskFree, dividend, eng)
	require.Len(t, helpers, 104)

	initialSSE, err := SumSquaredErrors(helpers)
	require.NoError(t, err)

	ec := optim.NewEndCriteria(400, 40, 1e-8, 1e-8, 1e-8)
	res, err := Calibrate(mdl, helpers, optim.NelderMead{}, ec)
	require.NoError(t, err)
	require.NotEqual(t, optim.Failed, res.Reason)

	finalSSE, err := SumSquaredErrors(helpers)
	require.NoError(t, err)
	require.Less(t, finalSSE, initialSSE)
	require.InDelta(t, 36.6, finalSSE, 2.5, "calibration quality degraded: sse %v", finalSSE)

	// fitted parameters stay in domain thanks to the transforms
	require.Greater(t, mdl.V0, 0.0)
	require.Greater(t, mdl.Kappa, 0.0)
	require.Greater(t, mdl.Sigma, 0.0)
	require.Greater(t, mdl.Lambda, 0.0)
	require.InDelta(t, 0.0, mdl.Rho, 1.0)
}

func TestCalibrationErrorTracksModel(t *testing.T) {
	market, ctx, cal, dc, riskFree, dividend := daxSetup(t)

	proc := model.HestonProcess{
		RiskFree: riskFree, Dividend: dividend, S0: quote.NewSimple(market.S0),
		V0: 0.0433, Kappa: 1.0, Theta: 0.0433, Sigma: 1.0, Rho: 0.0,
	}
	mdl := model.NewBates(proc, 1.1098, -0.1285, 0.1702)
	eng, err := engine.NewAnalyticBatesEngine(mdl, ctx, dc, 64)
	require.NoError(t, err)

	helpers := daxHelpers(t, market, ctx, cal, dc, riskFree, dividend, eng)
	h := helpers[50]

	e1, err := h.CalibrationError()
	require.NoError(t, err)

	p := mdl.Params()
	p[4] += 0.5 // bump v0
	mdl.SetParams(p)

	e2, err := h.CalibrationError()
	require.NoError(t, err)
	require.NotEqual(t, e1, e2)
}
