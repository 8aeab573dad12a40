package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlackFormulaIntrinsic(t *testing.T) {
	require.Equal(t, 10.0, BlackFormula(Call, 90.0, 100.0, 0))
	require.Equal(t, 0.0, BlackFormula(Call, 110.0, 100.0, 0))
	require.Equal(t, 10.0, BlackFormula(Put, 110.0, 100.0, 0))
}

func TestBlackPriceKnownValue(t *testing.T) {
	// textbook at-the-money call: S=K=100, t=1, vol=20%, r=5%
	got := BlackPrice(Call, 100.0, 100.0, 1.0, 0.2, 0.05, 0.0)
	require.InDelta(t, 10.450584, got, 1e-6)
}

func TestPutCallParity(t *testing.T) {
	s0, k, tt, vol, r, q := 100.0, 95.0, 1.5, 0.3, 0.05, 0.02
	call := BlackPrice(Call, k, s0, tt, vol, r, q)
	put := BlackPrice(Put, k, s0, tt, vol, r, q)
	forward := s0 * math.Exp((r-q)*tt)
	df := math.Exp(-r * tt)
	require.InDelta(t, df*(forward-k), call-put, 1e-12)
}

func TestImpliedVolRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		typ  OptionType
		k    float64
		vol  float64
	}{
		{"atm call", Call, 100.0, 0.2},
		{"otm call", Call, 130.0, 0.45},
		{"itm put", Put, 120.0, 0.3},
		{"low vol", Call, 100.0, 0.05},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price := BlackPrice(tc.typ, tc.k, 100.0, 1.0, tc.vol, 0.04, 0.01)
			iv, err := ImpliedVol(tc.typ, tc.k, 100.0, 1.0, 0.04, 0.01, price)
			require.NoError(t, err)
			require.InDelta(t, tc.vol, iv, 1e-6)
		})
	}
}

func TestImpliedVolBelowIntrinsic(t *testing.T) {
	// deep ITM call quoted below its intrinsic value has no implied vol
	_, err := ImpliedVol(Call, 50.0, 100.0, 1.0, 0.0, 0.0, 40.0)
	require.Error(t, err)
}

func TestBlackVega(t *testing.T) {
	// vega via central finite difference
	s0, k, tt, vol, r, q := 100.0, 105.0, 2.0, 0.25, 0.03, 0.0
	h := 1e-5
	fd := (BlackPrice(Call, k, s0, tt, vol+h, r, q) - BlackPrice(Call, k, s0, tt, vol-h, r, q)) / (2 * h)
	require.InDelta(t, fd, BlackVega(k, s0, tt, vol, r, q), 1e-5)
}
