package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSheet = `{
	"settlement": "2002-07-05",
	"s0": 4468.17,
	"maturity_days": [13, 41],
	"zero_rates": [0.0357, 0.0349],
	"strikes": [4400, 4500],
	"vols": [[0.3267, 0.3154], [0.3121, 0.2984]],
	"dividend_rate": 0.0
}`

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMarket(t *testing.T) {
	m, err := LoadMarket(writeSheet(t, sampleSheet))
	require.NoError(t, err)

	require.Equal(t, 4468.17, m.S0)
	require.Equal(t, []int{13, 41}, m.MaturityDays)
	require.Equal(t, 0.3154, m.Vols.At(0, 1))
	require.Equal(t, "2002-07-05", m.Settlement.Format("2006-01-02"))
}

func TestLoadMarketErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"not json", "oops"},
		{"bad date", `{"settlement": "05/07/2002", "maturity_days": [1], "zero_rates": [0.1], "strikes": [100], "vols": [[0.2]]}`},
		{"rate count mismatch", `{"settlement": "2002-07-05", "maturity_days": [1, 2], "zero_rates": [0.1], "strikes": [100], "vols": [[0.2, 0.2]]}`},
		{"vol row mismatch", `{"settlement": "2002-07-05", "maturity_days": [1], "zero_rates": [0.1], "strikes": [100, 200], "vols": [[0.2]]}`},
		{"ragged vol row", `{"settlement": "2002-07-05", "maturity_days": [1, 2], "zero_rates": [0.1, 0.1], "strikes": [100], "vols": [[0.2]]}`},
		{"empty grid", `{"settlement": "2002-07-05", "maturity_days": [], "zero_rates": [], "strikes": [], "vols": []}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMarket(writeSheet(t, tc.content))
			require.Error(t, err)
		})
	}

	_, err := LoadMarket(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
