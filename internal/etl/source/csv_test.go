package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReader(t *testing.T) {
	path := writeTempCSV(t, "transaction_id,mls_listing_number,list_price\nTX-001,MLS-100,450000\nTX-002,MLS-101\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Row())
	assert.Equal(t, "TX-001", rec.Get("transaction_id"))
	assert.Equal(t, "450000", rec.Get("list_price"))

	// Short row: trailing field absent, not an error.
	rec, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Row())
	assert.Equal(t, "TX-002", rec.Get("transaction_id"))
	assert.False(t, rec.Has("list_price"))

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestOpenCSVMissingFile(t *testing.T) {
	_, err := OpenCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestRecordNormalization(t *testing.T) {
	rec := Record{
		"a": "  value  ",
		"b": "NaN",
		"c": "N/A",
		"d": "",
	}

	assert.Equal(t, "value", rec.Get("a"))
	assert.Equal(t, "", rec.Get("b"))
	assert.False(t, rec.Has("c"))
	assert.False(t, rec.Has("d"))
	assert.False(t, rec.Has("missing"))
}
