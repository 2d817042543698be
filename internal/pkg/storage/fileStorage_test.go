package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenDelete(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.Save("reports/r1.pdf", strings.NewReader("%PDF-1.7")))
	assert.True(t, s.Exists("reports/r1.pdf"))

	rc, err := s.Open("reports/r1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, s.Delete("reports/r1.pdf"))
	assert.False(t, s.Exists("reports/r1.pdf"))

	_, err = s.Open("reports/r1.pdf")
	assert.True(t, os.IsNotExist(err))
}

func TestRejectsEscapingPaths(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	assert.ErrorIs(t, s.Save("../outside.pdf", strings.NewReader("x")), ErrInvalidPath)
	_, err := s.Open("")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.False(t, s.Exists("../../etc/passwd"))
}
