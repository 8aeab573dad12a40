package option

import (
	"testing"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/model"
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

func testEngine(t *testing.T, ctx *dates.Context) (*engine.AnalyticBatesEngine, *model.Bates) {
	t.Helper()
	proc := model.HestonProcess{
		RiskFree: rates.Flat(0.04),
		Dividend: rates.Flat(0.0),
		S0:       quote.NewSimple(100.0),
		V0:       0.04, Kappa: 1.5, Theta: 0.04, Sigma: 0.3, Rho: -0.6,
	}
	mdl := model.NewBates(proc, 1.0, -0.1, 0.2)
	eng, err := engine.NewAnalyticBatesEngine(mdl, ctx, dates.ActualActual, 0)
	require.NoError(t, err)
	return eng, mdl
}

func TestNPVRequiresEngine(t *testing.T) {
	o := NewEuropean(engine.Call, 100.0, d("2008-03-30"))
	_, err := o.NPV()
	require.Error(t, err)

	require.Error(t, o.SetPricingEngine(nil))
}

func TestNPVIsCached(t *testing.T) {
	ctx := dates.NewContext(d("2007-03-30"))
	eng, _ := testEngine(t, ctx)

	o := NewEuropean(engine.Put, 100.0, d("2008-03-30"))
	require.NoError(t, o.SetPricingEngine(eng))

	v1, err := o.NPV()
	require.NoError(t, err)
	v2, err := o.NPV()
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Greater(t, v1, 0.0)
}

func TestModelMutationInvalidatesCache(t *testing.T) {
	ctx := dates.NewContext(d("2007-03-30"))
	eng, mdl := testEngine(t, ctx)

	o := NewEuropean(engine.Put, 100.0, d("2008-03-30"))
	require.NoError(t, o.SetPricingEngine(eng))

	v1, err := o.NPV()
	require.NoError(t, err)

	// bump long-run variance and reprice
	p := mdl.Params()
	p[0] += 0.5
	mdl.SetParams(p)

	v2, err := o.NPV()
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)
}

func TestRebindingDetachesOldModel(t *testing.T) {
	ctx := dates.NewContext(d("2007-03-30"))
	eng1, mdl1 := testEngine(t, ctx)
	eng2, _ := testEngine(t, ctx)

	o := NewEuropean(engine.Call, 100.0, d("2008-03-30"))
	require.NoError(t, o.SetPricingEngine(eng1))
	v1, err := o.NPV()
	require.NoError(t, err)
	require.NoError(t, o.SetPricingEngine(eng2))
	v2, err := o.NPV()
	require.NoError(t, err)
	require.InDelta(t, v1, v2, 1e-12)

	// mutations of the unbound model must not touch the cached NPV
	p := mdl1.Params()
	p[0] += 1.0
	mdl1.SetParams(p)
	v3, err := o.NPV()
	require.NoError(t, err)
	require.Equal(t, v2, v3)
}
