package ngram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAndGetFreq(t *testing.T) {
	g := New()
	require.True(t, g.InsertFreq(1, 10))
	require.False(t, g.InsertFreq(1, 20), "re-inserting an existing token must fail")

	f, ok := g.GetFreq(1)
	require.True(t, ok)
	require.Equal(t, uint32(10), f)

	_, ok = g.GetFreq(99)
	require.False(t, ok)
}

func TestSetFreqRequiresExisting(t *testing.T) {
	g := New()
	require.False(t, g.SetFreq(1, 5), "setting an absent token must fail")
	g.InsertFreq(1, 5)
	require.True(t, g.SetFreq(1, 50))
	f, _ := g.GetFreq(1)
	require.Equal(t, uint32(50), f)
}

func TestTotalFreqIsExternal(t *testing.T) {
	g := New()
	g.InsertFreq(1, 10)
	g.InsertFreq(2, 20)
	require.Equal(t, uint64(0), g.GetTotalFreq())

	g.SetTotalFreq(1000)
	require.Equal(t, uint64(1000), g.GetTotalFreq())

	all := g.RetrieveAll()
	require.Equal(t, 0.01, all[0].NormalizedFreq)
}

func TestRetrieveAllAscendingByToken(t *testing.T) {
	g := New()
	g.InsertFreq(30, 1)
	g.InsertFreq(10, 2)
	g.InsertFreq(20, 3)
	g.SetTotalFreq(6)

	all := g.RetrieveAll()
	require.Len(t, all, 3)
	require.Equal(t, []uint32{10, 20, 30}, []uint32{all[0].Token, all[1].Token, all[2].Token})
}

func TestSearchRange(t *testing.T) {
	g := New()
	for _, tok := range []uint32{5, 10, 15, 20, 25} {
		g.InsertFreq(tok, tok)
	}
	g.SetTotalFreq(100)

	got := g.SearchRange(10, 21)
	require.Len(t, got, 3)
	require.Equal(t, []uint32{10, 15, 20}, []uint32{got[0].Token, got[1].Token, got[2].Token})
}

// A frequency above the external total normalizes past 1.0; the store
// must report it as-is rather than clamp.
func TestSearchRangeNormalizesAgainstExternalTotal(t *testing.T) {
	g := New()
	g.SetTotalFreq(16)
	for _, e := range []Entry{{1, 16}, {2, 1}, {3, 32}, {4, 4}, {6, 2}} {
		require.True(t, g.InsertFreq(e.Token, e.Freq))
	}

	got := g.SearchRange(0, 8)
	require.Len(t, got, 5)
	byToken := map[uint32]float64{}
	for _, r := range got {
		byToken[r.Token] = r.NormalizedFreq
	}
	require.Equal(t, 2.0, byToken[3])
	require.Equal(t, 1.0, byToken[1])
	require.Equal(t, 0.25, byToken[4])
}

func TestBiGramKeyedByPrevToken(t *testing.T) {
	b := NewBiGram()
	_, ok := b.Get(1)
	require.False(t, ok)

	sg := b.GetOrCreate(1)
	sg.InsertFreq(2, 7)

	got, ok := b.Get(1)
	require.True(t, ok)
	f, _ := got.GetFreq(2)
	require.Equal(t, uint32(7), f)
}
