package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// State is the durable ledger record. It round-trips exactly through
// Save/Load; the field set and names are the on-disk contract.
type State struct {
	Balance          float64        `json:"balance"`
	Portfolio        map[string]int `json:"portfolio"`
	TotalTrades      int            `json:"total_trades"`
	PortfolioHistory []float64      `json:"portfolio_history"`
	PortfolioDates   []string       `json:"portfolio_dates"`
}

// Store persists the ledger state as a single JSON document. Every save
// overwrites the previous record atomically: write a temp file in the same
// directory, flush it, then rename over the target. A crash mid-save
// leaves the previous record intact, so at most the in-flight operation is
// lost. Concurrent processes sharing one state file are not supported
// (last writer wins).
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save writes the whole state, replacing any previous record.
func (s *Store) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Load reads the state back. Missing files surface as fs.ErrNotExist via
// errors.Is; malformed content returns a parse error. The caller decides
// the fallback (a fresh ledger), never this layer.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return st, nil
}
