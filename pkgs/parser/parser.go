// Package parser implements segmentation: the dynamic-programming search
// for the k best partitions of a raw keystroke string into recognized
// syllables.
//
// One Parser implementation serves every phonetic system (pinyin,
// zhuyin, ...); the variability is entirely in the Config passed to New:
// the vocabulary, the fuzzy rule set, and whether incomplete syllables
// are admitted.
package parser

import (
	"sort"
	"strings"

	"github.com/gohanzi/ime/pkgs/fuzzy"
	"github.com/gohanzi/ime/pkgs/syllable"
	"github.com/gohanzi/ime/pkgs/trie"
)

// Config parameterizes a Parser for a specific phonetic system.
type Config struct {
	// Vocabulary is the full set of recognized syllables. For zhuyin
	// with incomplete-syllable admission, the caller includes the
	// initial-only forms directly in this list — the parser treats
	// every vocabulary entry identically.
	Vocabulary []string

	// Fuzzy is the confusion relation consulted when fuzzy matching is
	// requested. A nil Fuzzy is treated as identity-only.
	Fuzzy *fuzzy.Map
}

// Parser enumerates the k best segmentations of an input string.
type Parser struct {
	trie           *trie.Trie
	fz             *fuzzy.Map
	maxSyllableLen int
}

// New builds a Parser from Config.
func New(cfg Config) *Parser {
	fz := cfg.Fuzzy
	if fz == nil {
		fz = fuzzy.New()
	}
	maxLen := 0
	for _, s := range cfg.Vocabulary {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	// Fuzzy rules may pair syllables of different lengths (e.g. "in" <->
	// "ing"); pad the DP transition window so cross-length alternatives
	// are never pruned away.
	return &Parser{
		trie:           trie.New(cfg.Vocabulary),
		fz:             fz,
		maxSyllableLen: maxLen + 2,
	}
}

// WithSyllables builds a Parser over vocab with no fuzzy rules — a
// convenience constructor used by tests and simple callers.
func WithSyllables(vocab []string) *Parser {
	return New(Config{Vocabulary: vocab, Fuzzy: fuzzy.New()})
}

type path struct {
	cost float64
	seq  syllable.Segmentation
}

// SegmentBest returns the single lowest-cost covering segmentation, or
// false if no covering exists.
func (p *Parser) SegmentBest(input string, useFuzzy bool) (syllable.Segmentation, bool) {
	res := p.SegmentTopK(input, 1, useFuzzy)
	if len(res) == 0 {
		return nil, false
	}
	return res[0], true
}

// SegmentTopK returns the k best segmentations of input, ascending by
// total cost, ties broken first by fewer syllables then by lexicographic
// syllable-text sequence. Deterministic across calls and processes.
//
// Empty input yields a single empty segmentation at cost 0. Unknown
// characters that cannot start or continue any covering (including
// fuzzy rewrites) cause the DP to produce no covering path, so the
// result is an empty slice.
func (p *Parser) SegmentTopK(input string, k int, useFuzzy bool) []syllable.Segmentation {
	if k <= 0 {
		return nil
	}
	n := len(input)
	if n == 0 {
		return []syllable.Segmentation{{}}
	}

	// dp[j] holds up to k best paths reaching byte position j.
	dp := make([][]path, n+1)
	dp[0] = []path{{cost: 0, seq: nil}}

	for j := 1; j <= n; j++ {
		var candidates []path
		lo := j - p.maxSyllableLen
		if lo < 0 {
			lo = 0
		}
		for i := j - 1; i >= lo; i-- {
			if len(dp[i]) == 0 {
				continue
			}
			substr := input[i:j]
			for _, alt := range p.fz.Alternatives(substr) {
				if !useFuzzy && alt.Penalty != 0 {
					continue
				}
				if !p.trie.Contains(alt.Text) {
					continue
				}
				syl := syllable.Syllable{Text: alt.Text, Start: i, Length: j - i, Penalty: alt.Penalty}
				for _, pr := range dp[i] {
					seq := make(syllable.Segmentation, len(pr.seq)+1)
					copy(seq, pr.seq)
					seq[len(pr.seq)] = syl
					candidates = append(candidates, path{cost: pr.cost + alt.Penalty, seq: seq})
				}
			}
		}
		dp[j] = bestK(candidates, k)
	}

	final := dp[n]
	out := make([]syllable.Segmentation, len(final))
	for i, pr := range final {
		out[i] = pr.seq
	}
	return out
}

// bestK sorts candidates by (cost, syllable count, lexicographic text
// sequence), deduplicates identical syllable-text sequences keeping the
// lowest cost, and truncates to k.
func bestK(candidates []path, k int) []path {
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return less(candidates[a], candidates[b])
	})

	seen := make(map[string]bool, len(candidates))
	out := make([]path, 0, k)
	for _, c := range candidates {
		key := segKey(c.seq)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out
}

func less(a, b path) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if len(a.seq) != len(b.seq) {
		return len(a.seq) < len(b.seq)
	}
	at, bt := a.seq.Texts(), b.seq.Texts()
	for i := range at {
		if at[i] != bt[i] {
			return at[i] < bt[i]
		}
	}
	return false
}

func segKey(seg syllable.Segmentation) string {
	var sb strings.Builder
	for _, s := range seg {
		sb.WriteString(s.Text)
		sb.WriteByte(0)
	}
	return sb.String()
}
