package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultUniverse is the built-in basket of large-cap US tickers used when
// no universe file is configured.
var DefaultUniverse = []string{
	"AAPL", "MSFT", "AMZN", "GOOGL", "NVDA", "META", "BRK-B", "TSLA",
	"LLY", "V", "UNH", "JPM", "JNJ", "XOM", "WMT", "MA", "PG", "HD",
	"CVX", "AVGO", "QCOM", "PLTR", "BITF",
}

// LoadUniverse reads ticker symbols from a tabular CSV file. The file must
// have a header row containing a "Ticker" column; other columns are
// ignored. Blank symbols and duplicate rows are dropped.
func LoadUniverse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read universe header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "ticker") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("universe file %s has no Ticker column", path)
	}

	var symbols []string
	seen := map[string]bool{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read universe row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(row[col]))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("universe file %s contains no symbols", path)
	}
	return symbols, nil
}
