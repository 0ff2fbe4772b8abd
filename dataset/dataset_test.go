package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/papertrader/market"
)

const barsCSV = `time,open,high,low,close,volume
2025-01-02T00:00:00Z,100,102,99,101.5,1000
2025-01-03T00:00:00Z,101.5,103,100.5,102.5,2000
2025-01-06,102.5,104,102,103,1500
`

func TestLoadBarsPlain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "AAPL.csv")
	require.NoError(t, os.WriteFile(path, []byte(barsCSV), 0644))

	bars, err := LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 101.5, bars[0].Close)
	assert.Equal(t, 1000.0, bars[0].Volume)
	// Date-only rows parse at midnight UTC.
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), bars[2].Time)
}

func TestLoadBarsNoHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("2025-01-02T00:00:00Z,1,2,0.5,1.5,10\n"), 0644))

	bars, err := LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1.5, bars[0].Close)
}

func TestLoadBarsGzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(barsCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "AAPL.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	bars, err := LoadBars(path)
	require.NoError(t, err)
	assert.Len(t, bars, 3)
}

func TestLoadBarsXZ(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(barsCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	path := filepath.Join(t.TempDir(), "AAPL.csv.xz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	bars, err := LoadBars(path)
	require.NoError(t, err)
	assert.Len(t, bars, 3)
}

func TestLoadBarsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,open,high,low,close,volume\n"), 0644))

	_, err := LoadBars(path)
	assert.ErrorIs(t, err, market.ErrNoData)
}

func TestLoadBarsBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("2025-01-02T00:00:00Z,1,2,nope,1.5\n"), 0644))

	_, err := LoadBars(path)
	assert.ErrorContains(t, err, "bad value")
}

func TestSourceGetBars(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MSFT.csv"), []byte(barsCSV), 0644))

	src := Source{Dir: dir}

	bars, err := src.GetBars(context.Background(), market.BarRequest{Symbol: "MSFT"})
	require.NoError(t, err)
	assert.Len(t, bars, 3)

	_, err = src.GetBars(context.Background(), market.BarRequest{Symbol: "NVDA"})
	assert.ErrorIs(t, err, market.ErrNoData)

	_, err = src.GetBars(context.Background(), market.BarRequest{})
	assert.ErrorContains(t, err, "symbol is required")
}
