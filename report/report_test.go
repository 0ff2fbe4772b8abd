package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/replay"
)

func TestWriteSeries(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := market.NewSeries("AAPL", []market.Bar{
		{Time: base, Close: 100},
		{Time: base.AddDate(0, 0, 1), Close: 95},
	}, market.SeedFirstClose)
	s.MarkBuy(base.AddDate(0, 0, 1), 95)

	dir := t.TempDir()
	require.NoError(t, Writer{Dir: dir}.WriteSeries(s))

	rows := readCSV(t, filepath.Join(dir, "AAPL.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"time", "close"}, rows[0])
	assert.Equal(t, []string{"2025-01-02T00:00:00Z", "100.00"}, rows[1])

	rows = readCSV(t, filepath.Join(dir, "AAPL_markers.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-01-03T00:00:00Z", "95.00", "BUY"}, rows[1])
}

func TestWritePortfolio(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	w := Writer{Dir: dir}

	require.NoError(t, w.WritePortfolio(
		[]float64{10000, 10050},
		[]time.Time{base, base.AddDate(0, 0, 1)},
	))

	rows := readCSV(t, filepath.Join(dir, "portfolio.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2025-01-03T00:00:00Z", "10050.00"}, rows[2])

	assert.Error(t, w.WritePortfolio([]float64{1}, nil))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Summary(&buf, replay.Result{
		InitialBalance: 10000,
		FinalValue:     10500,
		Profit:         500,
		ROI:            5,
		Steps:          250,
		Trades:         12,
	})

	out := buf.String()
	assert.Contains(t, out, "Final Value: $10500.00")
	assert.Contains(t, out, "ROI: 5.0%")
	assert.Contains(t, out, "Trades: 12")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
