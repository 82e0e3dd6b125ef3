package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsPercentages(t *testing.T) {
	var seen []int
	src := bytes.NewReader(make([]byte, 100))
	r := NewProgressReader(src, 100, func(pct int) { seen = append(seen, pct) })

	buf := make([]byte, 25)
	for {
		_, err := r.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, []int{25, 50, 75, 100}, seen)
}

func TestProgressReader_ClampsAt100(t *testing.T) {
	var seen []int
	// Declared size is smaller than the actual stream.
	r := NewProgressReader(strings.NewReader("0123456789"), 4, func(pct int) { seen = append(seen, pct) })

	_, err := io.ReadAll(r)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for _, pct := range seen {
		assert.LessOrEqual(t, pct, 100)
	}
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestProgressReader_NilCallbackPassesThrough(t *testing.T) {
	src := strings.NewReader("data")
	r := NewProgressReader(src, 4, nil)
	assert.Equal(t, io.Reader(src), r)
}

func TestProgressReader_UnknownSizePassesThrough(t *testing.T) {
	src := strings.NewReader("data")
	r := NewProgressReader(src, 0, func(int) { t.Fatal("must not be called") })
	assert.Equal(t, io.Reader(src), r)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "data", string(out))
}
