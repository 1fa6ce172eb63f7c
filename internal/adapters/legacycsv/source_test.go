package legacycsv

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kin/internal/core/outcome"
)

const header = "Name,Aka,Sex,Born,Died,Dad,Mom,Relation,Spouse,Married,Order,Href,Status\n"

func TestNewSource_ReadsRows(t *testing.T) {
	input := "\ufeff" + header +
		"Carl,,0,1920-03-04,0,,,0,Dana,1945-05-01,1,,1\n" +
		",,,,,,,,,,,,\n" +
		"Bob,Bobby,0,1950,,Carl,Dana,0,,,2\n"

	src, err := NewSource(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Name", src.Fields()[0], "byte order mark is stripped")

	first, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "Carl", first["Name"])
	assert.Equal(t, "Dana", first["Spouse"])
	assert.Equal(t, "1", first["Status"])

	second, err := src.Next()
	require.NoError(t, err, "blank records are skipped")
	assert.Equal(t, "Bob", second["Name"])
	assert.Equal(t, "Bobby", second["Aka"])
	_, hasStatus := second["Status"]
	assert.False(t, hasStatus, "short record leaves trailing fields absent")

	_, err = src.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestNewSource_MissingFields(t *testing.T) {
	_, err := NewSource(strings.NewReader("Name,Born,Dad\nCarl,1920,\n"))
	require.Error(t, err)
	assert.True(t, outcome.Is(err, outcome.KindValidation))
	assert.Contains(t, err.Error(), "Aka")
	assert.Contains(t, err.Error(), "Status")
}

func TestNewSource_Empty(t *testing.T) {
	_, err := NewSource(strings.NewReader(""))
	assert.True(t, outcome.Is(err, outcome.KindValidation))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"Carl,,0,1920,,,,0,,,1,,0\n"), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", row["Order"])

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
