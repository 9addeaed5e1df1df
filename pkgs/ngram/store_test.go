package ngram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleGramWriteLoadRoundTrip(t *testing.T) {
	g := New()
	g.InsertFreq(1, 10)
	g.InsertFreq(2, 20)
	g.SetTotalFreq(30)

	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(30), loaded.GetTotalFreq())

	f, ok := loaded.GetFreq(1)
	require.True(t, ok)
	require.Equal(t, uint32(10), f)
	f, ok = loaded.GetFreq(2)
	require.True(t, ok)
	require.Equal(t, uint32(20), f)
}

func TestBiGramWriteLoadRoundTrip(t *testing.T) {
	b := NewBiGram()
	g1 := b.GetOrCreate(1)
	g1.InsertFreq(10, 5)
	g1.InsertFreq(11, 7)
	g1.SetTotalFreq(12)

	g2 := b.GetOrCreate(2)
	g2.InsertFreq(20, 3)
	g2.SetTotalFreq(3)

	var buf bytes.Buffer
	require.NoError(t, WriteBiGram(&buf, b))

	loaded, err := LoadBiGram(&buf)
	require.NoError(t, err)

	got1, ok := loaded.Get(1)
	require.True(t, ok)
	f, ok := got1.GetFreq(10)
	require.True(t, ok)
	require.Equal(t, uint32(5), f)
	require.Equal(t, uint64(12), got1.GetTotalFreq())

	got2, ok := loaded.Get(2)
	require.True(t, ok)
	f, ok = got2.GetFreq(20)
	require.True(t, ok)
	require.Equal(t, uint32(3), f)
}

func TestLoadRejectsWrongArtifactKind(t *testing.T) {
	b := NewBiGram()
	var buf bytes.Buffer
	require.NoError(t, WriteBiGram(&buf, b))

	_, err := Load(&buf)
	require.Error(t, err)
}
