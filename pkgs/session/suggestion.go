// Suggestion editor: offers the nearest known syllables to the typed
// buffer by edit distance as a typo hint, distinct from the phonetic
// FuzzyMap's confusion-pair rewrites.
package session

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/gohanzi/ime/pkgs/decoder"
)

// maxSuggestions bounds how many nearest syllables are offered so a
// long, mostly-garbled buffer doesn't fuzzy-match half the vocabulary.
const maxSuggestions = 5

// SuggestionEditor handles keys while the session is in ModeSuggestion:
// typed characters grow the buffer as in the phonetic editor, and
// candidates are recomputed on every change. The session does not
// switch into this mode on its own when segmentation comes back empty.
type SuggestionEditor struct{}

func (e *SuggestionEditor) Name() string { return "suggestion" }

func (e *SuggestionEditor) CanHandle(key KeyEvent) bool {
	switch key.Kind {
	case KeyChar, KeyBackspace, KeyDigit:
		return true
	default:
		return false
	}
}

func (e *SuggestionEditor) Reset() {}

func (e *SuggestionEditor) ProcessKey(key KeyEvent, s *Session) EditorResult {
	switch key.Kind {
	case KeyChar:
		s.state = StateComposing
		s.setBuffer(append(append([]rune(nil), s.buffer...), key.Char))
		return EditorResult{Kind: ResultHandled}

	case KeyBackspace:
		if len(s.buffer) == 0 {
			return EditorResult{Kind: ResultPassThrough}
		}
		s.setBuffer(s.buffer[:len(s.buffer)-1])
		if len(s.buffer) == 0 {
			s.state = StateIdle
		}
		return EditorResult{Kind: ResultHandled}

	case KeyDigit:
		cand, ok := s.list.At(key.Digit)
		if !ok {
			return EditorResult{Kind: ResultHandled}
		}
		return EditorResult{Kind: ResultCommitAndReset, Text: cand.Text}

	default:
		return EditorResult{Kind: ResultPassThrough}
	}
}

// UpdateCandidates ranks s.m.Vocabulary by edit distance to the buffer
// and offers the closest matches as lexicon-sourced candidates: the
// offered text is itself a recognized syllable, just not one the buffer
// actually spelled, so SourceLexicon fits.
//
// Each vocabulary entry is the fuzzysearch "source" (pattern) tested
// against the typed buffer as "target" (haystack), since a syllable is
// almost always shorter than the buffer it's being matched into —
// RankMatch(source, target) returns -1 when source's runes don't occur
// as an in-order subsequence of target at all.
func (e *SuggestionEditor) UpdateCandidates(s *Session) {
	if len(s.buffer) == 0 || len(s.m.Vocabulary) == 0 {
		s.list = CandidateList{}
		return
	}
	buf := string(s.buffer)
	type hit struct {
		text string
		dist int
	}
	var hits []hit
	for _, syl := range s.m.Vocabulary {
		if d := fuzzy.RankMatch(syl, buf); d >= 0 {
			hits = append(hits, hit{text: syl, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].text < hits[j].text
	})
	if len(hits) > maxSuggestions {
		hits = hits[:maxSuggestions]
	}
	cands := make([]decoder.Candidate, 0, len(hits))
	for _, h := range hits {
		cands = append(cands, decoder.Candidate{
			Text:   h.text,
			Score:  -float64(h.dist),
			Source: decoder.SourceLexicon,
		})
	}
	s.list = NewCandidateList(cands, DefaultPageSize)
}
