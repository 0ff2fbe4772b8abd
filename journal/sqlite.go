package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, action, symbol, quantity, price, total)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Time, string(t.Action), t.Symbol, t.Quantity, t.Price, t.Total,
	)
	return err
}

func (j *SQLiteJournal) RecordValuation(v ValuationSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO valuations (time, balance, value)
		VALUES (?, ?, ?)`,
		v.Time, v.Balance, v.Value,
	)
	return err
}

// ListTrades returns trades for a symbol in execution order. An empty
// symbol returns all trades.
func (j *SQLiteJournal) ListTrades(symbol string) ([]TradeRecord, error) {
	q := `SELECT trade_id, time, action, symbol, quantity, price, total FROM trades ORDER BY trade_id`
	args := []any{}
	if symbol != "" {
		q = `SELECT trade_id, time, action, symbol, quantity, price, total FROM trades WHERE symbol = ? ORDER BY trade_id`
		args = append(args, symbol)
	}

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec    TradeRecord
			action string
			ts     time.Time
		)
		if err := rows.Scan(&rec.ID, &ts, &action, &rec.Symbol, &rec.Quantity, &rec.Price, &rec.Total); err != nil {
			return nil, err
		}
		rec.Time = ts
		rec.Action = Action(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
