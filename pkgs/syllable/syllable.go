// Package syllable defines the Syllable and Segmentation data types
// shared by every phonetic parser.
package syllable

import "strings"

// Syllable is a recognized phonetic unit matched at some span of the raw
// input, with the fuzzy penalty incurred to reach it (0.0 for an exact
// match).
type Syllable struct {
	Text    string  // canonical syllable text, e.g. "ni"
	Start   int     // byte offset into the raw input
	Length  int     // byte length of the matched span
	Penalty float64 // 0.0 for exact match, fuzzy penalty otherwise
}

// End returns the byte offset one past the syllable's span.
func (s Syllable) End() int {
	return s.Start + s.Length
}

// Segmentation is an ordered sequence of Syllables exactly covering
// [0, input_len) with no overlap and no gap.
type Segmentation []Syllable

// Cost is the total fuzzy cost of the segmentation: the sum of each
// syllable's penalty.
func (seg Segmentation) Cost() float64 {
	var total float64
	for _, s := range seg {
		total += s.Penalty
	}
	return total
}

// Texts returns the canonical syllable texts in order.
func (seg Segmentation) Texts() []string {
	out := make([]string, len(seg))
	for i, s := range seg {
		out[i] = s.Text
	}
	return out
}

// Key joins the syllable texts with "_". This is the one lexicon key
// encoding used everywhere: the table converter writes it and the
// decoder queries it.
func Key(texts []string) string {
	return strings.Join(texts, "_")
}

// CoversInput reports whether the segmentation's spans exactly tile
// [0, inputLen) with no overlap and no gap.
func (seg Segmentation) CoversInput(inputLen int) bool {
	pos := 0
	for _, s := range seg {
		if s.Start != pos {
			return false
		}
		pos += s.Length
	}
	return pos == inputLen
}
