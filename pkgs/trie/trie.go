// Package trie provides an O(length) test of whether a byte substring
// is a recognized syllable, plus enumeration of recognized prefixes of
// a string.
//
// Backed by github.com/tchap/go-patricia/v2: fast prefix containment
// over a vocabulary of short strings.
package trie

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// present is the sentinel value stored for every syllable; the trie is
// used purely as a prefix set, never as a value store.
var present = struct{}{}

// Trie is a prefix index over a fixed vocabulary of recognized syllables.
type Trie struct {
	t *patricia.Trie
}

// New builds a Trie from the full syllable vocabulary of a phonetic
// system (pinyin or zhuyin).
func New(vocabulary []string) *Trie {
	t := patricia.NewTrie()
	for _, s := range vocabulary {
		if s == "" {
			continue
		}
		t.Insert(patricia.Prefix(s), present)
	}
	return &Trie{t: t}
}

// Contains reports whether s is exactly a recognized syllable.
func (tr *Trie) Contains(s string) bool {
	if s == "" {
		return false
	}
	return tr.t.Get(patricia.Prefix(s)) != nil
}

// LongestPrefixes returns every end position j > start such that
// input[start:j] is a recognized syllable, ascending by j.
func (tr *Trie) LongestPrefixes(input string, start int) []int {
	if start >= len(input) {
		return nil
	}
	var ends []int
	// Walk byte-by-byte rather than relying on patricia's subtree
	// visitor: we need every exact match along the path, not just leaf
	// nodes, and the candidate substrings are short (syllables rarely
	// exceed a handful of bytes) so a linear scan is both simple and
	// fast enough for the hot path.
	for j := start + 1; j <= len(input); j++ {
		if tr.Contains(input[start:j]) {
			ends = append(ends, j)
		}
	}
	return ends
}

// HasPrefix reports whether s is a prefix of at least one recognized
// syllable, letting callers decide early that no longer match can start
// with s.
func (tr *Trie) HasPrefix(s string) bool {
	return tr.t.MatchSubtree(patricia.Prefix(s))
}
