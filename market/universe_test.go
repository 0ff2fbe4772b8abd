package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUniverse(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "universe.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadUniverse(t *testing.T) {
	t.Parallel()

	path := writeUniverse(t, "Name,Ticker,Sector\nApple,AAPL,Tech\nMicrosoft,msft,Tech\n,  ,\nApple,AAPL,Tech\n")

	symbols, err := LoadUniverse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}

func TestLoadUniverseMissingColumn(t *testing.T) {
	t.Parallel()

	path := writeUniverse(t, "Name,Symbol\nApple,AAPL\n")

	_, err := LoadUniverse(path)
	assert.ErrorContains(t, err, "no Ticker column")
}

func TestLoadUniverseEmpty(t *testing.T) {
	t.Parallel()

	path := writeUniverse(t, "Ticker\n")

	_, err := LoadUniverse(path)
	assert.ErrorContains(t, err, "no symbols")
}

func TestLoadUniverseMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadUniverse(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestDefaultUniverse(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, DefaultUniverse)
	seen := map[string]bool{}
	for _, sym := range DefaultUniverse {
		assert.False(t, seen[sym], "duplicate symbol %s", sym)
		seen[sym] = true
	}
}
