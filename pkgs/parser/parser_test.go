package parser

import (
	"testing"

	"github.com/gohanzi/ime/pkgs/fuzzy"
	"github.com/stretchr/testify/require"
)

func TestSegmentBestExact(t *testing.T) {
	p := WithSyllables([]string{"ni", "hao"})
	seg, ok := p.SegmentBest("nihao", false)
	require.True(t, ok)
	require.Equal(t, []string{"ni", "hao"}, seg.Texts())
	require.Equal(t, 0.0, seg.Cost())
	require.True(t, seg.CoversInput(len("nihao")))
}

func TestSegmentBestEmptyInput(t *testing.T) {
	p := WithSyllables([]string{"ni"})
	seg, ok := p.SegmentBest("", false)
	require.True(t, ok)
	require.Empty(t, seg)
	require.Equal(t, 0.0, seg.Cost())
}

func TestSegmentBestNoCoveringForUnknownChars(t *testing.T) {
	p := WithSyllables([]string{"ni", "hao"})
	_, ok := p.SegmentBest("xyz", true)
	require.False(t, ok)
}

// Fuzzy alternatives must surface as distinct segmentations even for
// single-syllable inputs, never silently collapsed into the exact match.
func TestFuzzyAlternativeIsDistinctSegmentation(t *testing.T) {
	fz, err := fuzzy.ParseRules([]string{"zi=zhi:1.5"})
	require.NoError(t, err)
	p := New(Config{Vocabulary: []string{"zi", "zhi"}, Fuzzy: fz})

	segs := p.SegmentTopK("zi", 10, true)
	require.Len(t, segs, 2)

	texts := map[string]float64{}
	for _, s := range segs {
		require.Len(t, s, 1)
		texts[s[0].Text] = s.Cost()
	}
	require.Equal(t, map[string]float64{"zi": 0.0, "zhi": 1.5}, texts)

	// Exact match ranks first (lower cost).
	require.Equal(t, "zi", segs[0][0].Text)
	require.Equal(t, "zhi", segs[1][0].Text)
}

func TestSegmentTopKNoFuzzyOnlyIdentity(t *testing.T) {
	fz, err := fuzzy.ParseRules([]string{"zi=zhi:1.5"})
	require.NoError(t, err)
	p := New(Config{Vocabulary: []string{"zi", "zhi"}, Fuzzy: fz})

	segs := p.SegmentTopK("zi", 10, false)
	require.Len(t, segs, 1)
	require.Equal(t, []string{"zi"}, segs[0].Texts())
}

func TestSegmentTopKDeterministic(t *testing.T) {
	fz, err := fuzzy.ParseRules(fuzzy.PinyinDefaults())
	require.NoError(t, err)
	p := New(Config{Vocabulary: []string{"zi", "zhi", "si", "shi"}, Fuzzy: fz})

	first := p.SegmentTopK("zi", 5, true)
	for i := 0; i < 5; i++ {
		again := p.SegmentTopK("zi", 5, true)
		require.Equal(t, first, again, "segment_top_k must be deterministic across repeated calls")
	}
}

func TestSegmentTopKTieBreakFewerSyllablesThenLex(t *testing.T) {
	// "aa" can be split as one syllable "aa" or two syllables "a"+"a",
	// both at cost 0 if fuzzy is irrelevant — fewer syllables wins.
	p := WithSyllables([]string{"a", "aa"})
	segs := p.SegmentTopK("aa", 5, false)
	require.True(t, len(segs) >= 2)
	require.Equal(t, []string{"aa"}, segs[0].Texts())
	require.Equal(t, []string{"a", "a"}, segs[1].Texts())
}

func TestCoversInputInvariantAcrossAllTopK(t *testing.T) {
	fz, err := fuzzy.ParseRules(fuzzy.PinyinDefaults())
	require.NoError(t, err)
	p := New(Config{Vocabulary: []string{"ni", "hao", "zi", "zhi", "si", "shi"}, Fuzzy: fz})

	for _, input := range []string{"nihao", "zi", "shi"} {
		segs := p.SegmentTopK(input, 8, true)
		for _, s := range segs {
			require.True(t, s.CoversInput(len(input)), "segmentation %+v must cover %q", s, input)
		}
	}
}
