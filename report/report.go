// Package report emits the presentational artifacts of a backtest: CSV
// files a plotting tool can consume (per-symbol price series, buy/sell
// markers, portfolio value curve) and a console summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/replay"
)

// Writer writes report files into a directory.
type Writer struct {
	Dir string
}

// WriteSeries writes SYMBOL.csv (time,close) and SYMBOL_markers.csv
// (time,price,action) for one series.
func (w Writer) WriteSeries(s *market.Series) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return err
	}

	if err := w.writeCSV(s.Symbol+".csv", []string{"time", "close"}, func(cw *csv.Writer) error {
		for _, obs := range s.Observations() {
			if err := cw.Write([]string{obs.Time.Format(time.RFC3339), f(obs.Close)}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return w.writeCSV(s.Symbol+"_markers.csv", []string{"time", "price", "action"}, func(cw *csv.Writer) error {
		for _, m := range s.Buys() {
			if err := cw.Write([]string{m.Time.Format(time.RFC3339), f(m.Close), "BUY"}); err != nil {
				return err
			}
		}
		for _, m := range s.Sells() {
			if err := cw.Write([]string{m.Time.Format(time.RFC3339), f(m.Close), "SELL"}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePortfolio writes portfolio.csv (time,value) from the parallel
// valuation sequences.
func (w Writer) WritePortfolio(values []float64, dates []time.Time) error {
	if len(values) != len(dates) {
		return fmt.Errorf("report: %d values vs %d dates", len(values), len(dates))
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return err
	}

	return w.writeCSV("portfolio.csv", []string{"time", "value"}, func(cw *csv.Writer) error {
		for i := range values {
			if err := cw.Write([]string{dates[i].Format(time.RFC3339), f(values[i])}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w Writer) writeCSV(name string, header []string, body func(*csv.Writer) error) error {
	file, err := os.Create(filepath.Join(w.Dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := body(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Summary prints the run summary the way a human reads it.
func Summary(w io.Writer, res replay.Result) {
	fmt.Fprintf(w, "\nSimulation Results:\n")
	fmt.Fprintf(w, "  Steps: %d\n", res.Steps)
	fmt.Fprintf(w, "  Initial Balance: $%.2f\n", res.InitialBalance)
	fmt.Fprintf(w, "  Final Value: $%.2f\n", res.FinalValue)
	fmt.Fprintf(w, "  Profit: $%.2f\n", res.Profit)
	fmt.Fprintf(w, "  ROI: %.1f%%\n", res.ROI)
	fmt.Fprintf(w, "  Trades: %d\n", res.Trades)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
