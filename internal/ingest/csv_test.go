package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(
		"Pole Number,Status\nLAW.P.B167,Approved\nLAW.P.B168,Declined\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Pole Number", "Status"}, ds.Header)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 0, ds.Records[0].Index)
	assert.Equal(t, "LAW.P.B167", ds.Records[0].Get("Pole Number"))
	assert.Equal(t, "Declined", ds.Records[1].Get("Status"))
}

func TestParseCSVKeepsValuesVerbatim(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("A,B\n\"  padded \",\"with, comma\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "  padded ", ds.Records[0].Get("A"))
	assert.Equal(t, "with, comma", ds.Records[0].Get("B"))
}

func TestParseCSVRaggedRow(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("A,B,C\n1,2,3\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	path := writeTemp(t, "export.csv", []byte("Pole Number,Status\nA1,Approved\n"))

	ds, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
}

func TestReadCSVWindows1252Fallback(t *testing.T) {
	// "Pretoria-Wes\xe9" is latin-1 style bytes, not valid UTF-8.
	raw := []byte("Site,Status\nPretoria-Wes\xe9,Approved\n")
	path := writeTemp(t, "export.csv", raw)

	ds, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Pretoria-Wesé", ds.Records[0].Get("Site"))
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
