package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	entries := [][]byte{[]byte("one"), []byte("two"), []byte("three")}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "lexicon", entries))

	header, got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, "lexicon", header.Kind)
	require.Equal(t, uint32(len(entries)), header.EntryCount)
	require.Equal(t, entries, got)
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "lexicon", nil))
	corrupted := buf.Bytes()
	corrupted[0] = 'X'

	_, _, err := Read(bytes.NewReader(corrupted))
	require.Error(t, err)
}

func TestReadRejectsTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "lexicon", [][]byte{[]byte("payload")}))
	truncated := buf.Bytes()[:buf.Len()-2]

	_, _, err := Read(bytes.NewReader(truncated))
	require.Error(t, err)
}

func TestEmptyEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "interpolator", nil))

	header, got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0), header.EntryCount)
	require.Empty(t, got)
}
