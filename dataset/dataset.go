// Package dataset loads historical bar files for offline backtests, so a
// run does not depend on the market-data provider being reachable. Files
// are CSV (time,open,high,low,close,volume), optionally compressed with
// gzip or xz.
package dataset

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/papertrader/market"
)

// LoadBars reads one symbol's bar history from path. A header row starting
// with "time" is skipped. Compression is chosen by extension: .gz, .xz, or
// none.
func LoadBars(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer zr.Close()
		reader = zr
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		reader = xr
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	firstRow, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", path, market.ErrNoData)
	}
	if err != nil {
		return nil, err
	}

	var bars []market.Bar
	hasHeader := len(firstRow) > 0 && strings.EqualFold(strings.TrimSpace(firstRow[0]), "time")
	if !hasHeader {
		b, err := parseRow(firstRow)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		b, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", path, market.ErrNoData)
	}
	return bars, nil
}

func parseRow(row []string) (market.Bar, error) {
	if len(row) < 5 {
		return market.Bar{}, fmt.Errorf("bad row (need at least 5 cols time,open,high,low,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse("2006-01-02", ts)
		if err2 != nil {
			return market.Bar{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		t = t2
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad value %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	b := market.Bar{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(row) >= 6 && strings.TrimSpace(row[5]) != "" {
		vol, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
		b.Volume = vol
	}
	return b, nil
}

// Source serves bars for backtests from a directory of per-symbol files
// named SYMBOL.csv, SYMBOL.csv.gz, or SYMBOL.csv.xz. It implements
// market.BarSource; the request's time range is ignored because the file
// is the whole dataset.
type Source struct {
	Dir string
}

func (s Source) GetBars(_ context.Context, req market.BarRequest) ([]market.Bar, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("dataset: symbol is required")
	}

	for _, ext := range []string{".csv", ".csv.gz", ".csv.xz"} {
		path := filepath.Join(s.Dir, req.Symbol+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadBars(path)
	}
	return nil, fmt.Errorf("dataset: %s: %w", req.Symbol, market.ErrNoData)
}
