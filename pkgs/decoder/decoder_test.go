package decoder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohanzi/ime/pkgs/config"
	"github.com/gohanzi/ime/pkgs/fuzzy"
	"github.com/gohanzi/ime/pkgs/interpolator"
	"github.com/gohanzi/ime/pkgs/lexicon"
	"github.com/gohanzi/ime/pkgs/model"
	"github.com/gohanzi/ime/pkgs/ngram"
	"github.com/gohanzi/ime/pkgs/userdict"
)

func buildModel(t *testing.T, vocab []string, groups map[string]lexicon.Group, fuzzyRules []string, freqs map[uint32]uint32) *model.Model {
	t.Helper()

	lex, err := lexicon.Build(groups)
	require.NoError(t, err)

	uni := ngram.New()
	var total uint64
	for tok, f := range freqs {
		require.True(t, uni.InsertFreq(tok, f))
		total += uint64(f)
	}
	uni.SetTotalFreq(total)

	interp, err := interpolator.Build(nil, interpolator.Lambdas{0.5, 0.3, 0.2})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.FuzzyRules = fuzzyRules

	m, err := model.New(cfg, model.Deps{
		Vocabulary: vocab,
		Lexicon:    lex,
		Unigram:    uni,
		Interp:     interp,
	})
	require.NoError(t, err)
	return m
}

// Pinyin with exact match.
func TestInputExactMatch(t *testing.T) {
	m := buildModel(t,
		[]string{"ni", "hao"},
		map[string]lexicon.Group{
			"ni_hao": {{Text: "你好", Token: 1, Freq: 100}},
		},
		nil,
		map[uint32]uint32{1: 100},
	)

	cands := New(m).Input("nihao", false)
	require.NotEmpty(t, cands)
	require.Equal(t, "你好", cands[0].Text)
}

// Fuzzy match: both spellings surface, the exact one ranks first.
func TestInputFuzzyExactRanksFirst(t *testing.T) {
	m := buildModel(t,
		[]string{"zi", "zhi"},
		map[string]lexicon.Group{
			"zi":  {{Text: "字", Token: 1, Freq: 10}},
			"zhi": {{Text: "知", Token: 2, Freq: 10}},
		},
		[]string{"zi=zhi:1.5"},
		map[uint32]uint32{1: 10, 2: 10},
	)

	cands := New(m).Input("zi", true)
	require.Len(t, cands, 2)

	texts := map[string]bool{}
	for _, c := range cands {
		texts[c.Text] = true
	}
	require.True(t, texts["字"])
	require.True(t, texts["知"])
	require.Equal(t, "字", cands[0].Text, "exact match must rank above the fuzzy alternative")
}

func TestInputEmpty(t *testing.T) {
	m := buildModel(t, []string{"ni"}, map[string]lexicon.Group{
		"ni": {{Text: "你", Token: 1, Freq: 10}},
	}, nil, map[uint32]uint32{1: 10})

	require.Empty(t, New(m).Input("", false))
}

func TestInputUnknownCharsYieldNoCandidates(t *testing.T) {
	m := buildModel(t, []string{"ni", "hao"}, map[string]lexicon.Group{
		"ni": {{Text: "你", Token: 1, Freq: 10}},
	}, nil, map[uint32]uint32{1: 10})

	require.Empty(t, New(m).Input("xyz", true))
}

func TestInputMultiSyllableSentence(t *testing.T) {
	m := buildModel(t,
		[]string{"ni", "hao", "ma"},
		map[string]lexicon.Group{
			"ni_hao": {{Text: "你好", Token: 1, Freq: 500}},
			"ma":     {{Text: "吗", Token: 2, Freq: 300}},
		},
		nil,
		map[uint32]uint32{1: 500, 2: 300},
	)

	cands := New(m).Input("nihaoma", false)
	require.NotEmpty(t, cands)
	require.Equal(t, "你好吗", cands[0].Text)
}

func TestCommittedPhraseIsTaggedUserSource(t *testing.T) {
	ud, err := userdict.Open(filepath.Join(t.TempDir(), "userdict.sqlite3"), nil)
	require.NoError(t, err)
	defer ud.Close()
	require.NoError(t, ud.Bump("你好", 3))

	m := buildModel(t,
		[]string{"ni", "hao"},
		map[string]lexicon.Group{
			"ni_hao": {{Text: "你好", Token: 1, Freq: 100}},
		},
		nil,
		map[uint32]uint32{1: 100},
	)
	m.UserDict = ud

	cands := New(m).Input("nihao", false)
	require.NotEmpty(t, cands)
	require.Equal(t, "你好", cands[0].Text)
	require.Equal(t, SourceUser, cands[0].Source)
}

func TestInputDeterministicAcrossRuns(t *testing.T) {
	m := buildModel(t,
		[]string{"zi", "zhi", "si", "shi"},
		map[string]lexicon.Group{
			"zi":  {{Text: "字", Token: 1, Freq: 10}},
			"zhi": {{Text: "知", Token: 2, Freq: 12}},
			"si":  {{Text: "四", Token: 3, Freq: 20}},
			"shi": {{Text: "是", Token: 4, Freq: 30}},
		},
		fuzzy.PinyinDefaults(),
		map[uint32]uint32{1: 10, 2: 12, 3: 20, 4: 30},
	)

	d := New(m)
	first := d.Input("zi", true)
	for i := 0; i < 20; i++ {
		again := d.Input("zi", true)
		require.Equal(t, first, again, "engine.Input must be deterministic across repeated calls")
	}
}
