package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','valuations')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["valuations"])
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	at := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)
	rec := TradeRecord{
		ID:       "01TEST",
		Time:     at,
		Action:   Buy,
		Symbol:   "AAPL",
		Quantity: 10,
		Price:    95,
		Total:    950,
	}

	require.NoError(t, j.RecordTrade(rec))

	got, err := j.ListTrades("AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "01TEST", got[0].ID)
	assert.Equal(t, Buy, got[0].Action)
	assert.Equal(t, 10, got[0].Quantity)
	assert.Equal(t, 950.0, got[0].Total)
	assert.True(t, got[0].Time.Equal(at))
}

func TestSQLiteListTradesFiltersSymbol(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	at := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{ID: "01A", Time: at, Action: Buy, Symbol: "AAPL", Quantity: 1, Price: 10, Total: 10}))
	require.NoError(t, j.RecordTrade(TradeRecord{ID: "01B", Time: at, Action: Sell, Symbol: "MSFT", Quantity: 2, Price: 20, Total: 40}))

	got, err := j.ListTrades("MSFT")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Sell, got[0].Action)

	all, err := j.ListTrades("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteRecordValuation(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	at := time.Date(2025, 3, 4, 16, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordValuation(ValuationSnapshot{Time: at, Balance: 9050, Value: 10000}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var balance, value float64
	require.NoError(t, db.QueryRow(`SELECT balance, value FROM valuations`).Scan(&balance, &value))
	assert.Equal(t, 9050.0, balance)
	assert.Equal(t, 10000.0, value)
}
