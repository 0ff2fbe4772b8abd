package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	valsPath := filepath.Join(dir, "valuations.csv")

	j, err := NewCSV(tradesPath, valsPath)
	require.NoError(t, err)

	at := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{
		ID: "01T", Time: at, Action: Sell, Symbol: "NVDA", Quantity: 3, Price: 120.5, Total: 361.5,
	}))
	require.NoError(t, j.RecordValuation(ValuationSnapshot{Time: at, Balance: 500, Value: 861.5}))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"trade_id", "time", "action", "symbol", "quantity", "price", "total"}, rows[0])
	assert.Equal(t, []string{"01T", "2025-03-04T15:30:00Z", "SELL", "NVDA", "3", "120.50", "361.50"}, rows[1])

	rows = readCSV(t, valsPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-03-04T15:30:00Z", "500.00", "861.50"}, rows[1])
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
