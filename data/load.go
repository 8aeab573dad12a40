package data

import (
	"encoding/json"
	"os"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/mat"
)

// marketFile is the on-disk JSON shape of a quote sheet. Vols rows are per
// strike, columns per maturity.
type marketFile struct {
	Settlement   string      `json:"settlement"`
	S0           float64     `json:"s0"`
	MaturityDays []int       `json:"maturity_days"`
	ZeroRates    []float64   `json:"zero_rates"`
	Strikes      []float64   `json:"strikes"`
	Vols         [][]float64 `json:"vols"`
	DividendRate float64     `json:"dividend_rate"`
}

// LoadMarket reads a quote sheet from a JSON file.
func LoadMarket(path string) (Market, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Market{}, err
	}
	var f marketFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return Market{}, err
	}
	settlement, err := time.Parse(dates.Layout, f.Settlement)
	if err != nil {
		return Market{}, errs.Configf("bad settlement date %q: %v", f.Settlement, err)
	}
	if len(f.MaturityDays) == 0 || len(f.Strikes) == 0 {
		return Market{}, errs.Configf("quote sheet needs maturities and strikes")
	}
	if len(f.ZeroRates) != len(f.MaturityDays) {
		return Market{}, errs.Configf("%d zero rates for %d maturities", len(f.ZeroRates), len(f.MaturityDays))
	}
	if len(f.Vols) != len(f.Strikes) {
		return Market{}, errs.Configf("%d vol rows for %d strikes", len(f.Vols), len(f.Strikes))
	}
	vols := mat.NewDense(len(f.Strikes), len(f.MaturityDays), nil)
	for i, row := range f.Vols {
		if len(row) != len(f.MaturityDays) {
			return Market{}, errs.Configf("vol row %d has %d entries, want %d", i, len(row), len(f.MaturityDays))
		}
		vols.SetRow(i, row)
	}
	return Market{
		Settlement:   settlement,
		S0:           f.S0,
		MaturityDays: f.MaturityDays,
		ZeroRates:    f.ZeroRates,
		Strikes:      f.Strikes,
		Vols:         vols,
		DividendRate: f.DividendRate,
	}, nil
}
