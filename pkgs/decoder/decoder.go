// Package decoder turns a raw keystroke string into ranked sentence
// candidates: segment, generate per-span phrase candidates from the
// lexicon, search the resulting DAG for the top-N sentence hypotheses
// scored by an interpolated n-gram model, then merge, rank, and apply
// post-filters.
//
// The per-segmentation sentence search follows the same k-best DP shape
// as pkgs/parser: a forward pass keeping a bounded beam of the best
// partial paths per position, with the (score, length, lexicographic)
// tie-break pulled into a single sort.SliceStable call.
package decoder

import (
	"math"
	"sort"

	"github.com/gohanzi/ime/pkgs/interpolator"
	"github.com/gohanzi/ime/pkgs/lexicon"
	"github.com/gohanzi/ime/pkgs/model"
	"github.com/gohanzi/ime/pkgs/syllable"
)

// Source tags where a Candidate's text came from.
type Source string

const (
	SourceLexicon     Source = "lexicon"
	SourceUser        Source = "user"
	SourceCloud       Source = "cloud"
	SourcePunctuation Source = "punctuation"
)

// Candidate is one ranked output for presentation. Produced fresh per
// input, never persisted.
type Candidate struct {
	Text   string
	Score  float64
	Source Source
}

// beamWidth bounds the number of partial paths kept per DAG position
// during sentence search, independent of the caller's requested
// CandidateN — a wider beam than the final truncation catches hypotheses
// that only become competitive after a later high-scoring span.
const beamWidth = 64

// Decoder searches a Model for ranked sentence candidates.
type Decoder struct {
	m *model.Model
}

// New builds a Decoder over m.
func New(m *model.Model) *Decoder {
	return &Decoder{m: m}
}

// Input runs the full pipeline over raw and returns up to
// Model.Cfg.CandidateN ranked Candidates. An input with no covering
// segmentation yields an empty, non-error result; the caller falls back
// to whatever partial-match UI behavior it implements.
func (d *Decoder) Input(raw string, useFuzzy bool) []Candidate {
	if raw == "" {
		return nil
	}
	segs := d.m.Parser.SegmentTopK(raw, d.m.Cfg.SegmentationK, useFuzzy)
	if len(segs) == 0 {
		return nil
	}

	type merged struct {
		Candidate
		exactSpan bool
	}
	byText := make(map[string]merged)
	for _, seg := range segs {
		for _, p := range d.searchSegmentation(seg) {
			if existing, ok := byText[p.text]; !ok || p.score > existing.Score {
				byText[p.text] = merged{
					Candidate: Candidate{Text: p.text, Score: p.score, Source: SourceLexicon},
					exactSpan: p.edges == 1,
				}
			}
		}
	}
	if len(byText) == 0 {
		return nil
	}

	out := make([]Candidate, 0, len(byText))
	exact := make(map[string]bool, len(byText))
	for _, c := range byText {
		out = append(out, c.Candidate)
		exact[c.Text] = c.exactSpan
	}
	// Map iteration order is randomized per process; fix a canonical
	// starting order before the tie-break sort below so that rank's
	// result, built from a margin-based comparator that is not a strict
	// total order, is reproducible across runs.
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	d.applyPostFilters(out, len(raw), exact)
	d.rank(out)

	n := d.m.Cfg.CandidateN
	if n <= 0 || n > len(out) {
		n = len(out)
	}
	return out[:n]
}

// path is one partial sentence hypothesis reaching a syllable-index
// position within a single segmentation.
type path struct {
	score        float64
	text         string
	lastToken    uint32
	hasLastToken bool
	edges        int // number of lexicon spans concatenated so far
}

// searchSegmentation runs the DAG search over one segmentation and
// returns the full-coverage paths reaching its end, each already
// penalized by SegCostWeight * segmentation cost.
func (d *Decoder) searchSegmentation(seg syllable.Segmentation) []path {
	m := len(seg)
	dp := make([][]path, m+1)
	dp[0] = []path{{}}

	texts := seg.Texts()
	for j := 1; j <= m; j++ {
		var candidates []path
		for i := 0; i < j; i++ {
			key := syllable.Key(texts[i:j])
			group, ok := d.m.Lexicon.Lookup(key)
			if !ok {
				continue
			}
			for _, prev := range dp[i] {
				for _, entry := range group {
					edgeScore := d.scoreEdge(entry, prev)
					candidates = append(candidates, path{
						score:        prev.score + edgeScore,
						text:         prev.text + entry.Text,
						lastToken:    entry.Token,
						hasLastToken: true,
						edges:        prev.edges + 1,
					})
				}
			}
		}
		dp[j] = beamBest(candidates, beamWidth)
	}

	segPenalty := d.m.Cfg.SegCostWeight * seg.Cost()
	final := dp[m]
	out := make([]path, len(final))
	for i, p := range final {
		out[i] = path{
			score: p.score - segPenalty, text: p.text,
			lastToken: p.lastToken, hasLastToken: p.hasLastToken, edges: p.edges,
		}
	}
	return out
}

// beamBest sorts candidates by descending score (ties broken by shorter
// text, then lexicographically), deduplicates identical display texts
// keeping the best-scoring one, and truncates to width.
func beamBest(candidates []path, width int) []path {
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		if len(candidates[a].text) != len(candidates[b].text) {
			return len(candidates[a].text) < len(candidates[b].text)
		}
		return candidates[a].text < candidates[b].text
	})

	seen := make(map[string]bool, len(candidates))
	out := make([]path, 0, width)
	for _, c := range candidates {
		if seen[c.text] {
			continue
		}
		seen[c.text] = true
		out = append(out, c)
		if len(out) == width {
			break
		}
	}
	return out
}

// scoreEdge computes the interpolated edge score for entry following
// the context carried by prev:
//
//	score(e|ctx) = log( lambda0*P_unigram(e) + lambda1*P_bigram(e|ctx) + lambda2*P_user(e) )
func (d *Decoder) scoreEdge(entry lexicon.PhraseEntry, prev path) float64 {
	lambdas := d.lookupLambdas(prev)

	pUni := d.probUnigram(entry.Token)
	pBi := d.probBigram(entry.Token, prev)
	pUser := d.probUser(entry.Text)

	mix := lambdas[0]*pUni + lambdas[1]*pBi + lambdas[2]*pUser
	if mix < d.m.Cfg.Epsilon {
		mix = d.m.Cfg.Epsilon
	}
	return math.Log(mix)
}

func (d *Decoder) lookupLambdas(prev path) interpolator.Lambdas {
	sig := interpolator.Signature(tokensOf(prev), !prev.hasLastToken)
	if l, ok := d.m.Interp.Lookup(sig); ok {
		return l
	}
	return d.m.Interp.Default()
}

func tokensOf(prev path) []uint32 {
	if !prev.hasLastToken {
		return nil
	}
	return []uint32{prev.lastToken}
}

func (d *Decoder) probUnigram(token uint32) float64 {
	f, ok := d.m.Unigram.GetFreq(token)
	if !ok {
		return 0
	}
	total := d.m.Unigram.GetTotalFreq()
	if total == 0 {
		return 0
	}
	return float64(f) / float64(total)
}

func (d *Decoder) probBigram(token uint32, prev path) float64 {
	if d.m.Bigram == nil || !prev.hasLastToken {
		return 0
	}
	sg, ok := d.m.Bigram.Get(prev.lastToken)
	if !ok {
		return 0
	}
	f, ok := sg.GetFreq(token)
	if !ok {
		return 0
	}
	total := sg.GetTotalFreq()
	if total == 0 {
		return 0
	}
	return float64(f) / float64(total)
}

// probUser returns a smoothed function of the phrase's UserDict
// frequency: freq / (freq + smoothing), which is 0 for an unseen phrase
// and approaches 1 as the user commits it more often.
func (d *Decoder) probUser(text string) float64 {
	freq := d.userFreq(text)
	if freq == 0 {
		return 0
	}
	smoothing := d.m.Cfg.UserFreqSmoothing
	if smoothing <= 0 {
		smoothing = 1.0
	}
	return float64(freq) / (float64(freq) + smoothing)
}

const (
	// shortInputThreshold is the input byte length at or below which very
	// long phrases are demoted.
	shortInputThreshold = 6
	// longPhraseRunes is the candidate rune length past which the
	// short-input demotion penalty applies.
	longPhraseRunes = 4
	demotionPenalty = 0.3
	exactSpanBoost  = 0.1
)

// applyPostFilters mutates cands in place: demote very long phrases for
// short inputs, boost exact single-span matches (exactSpan records, per
// candidate text, whether the winning path reached it through exactly
// one lexicon span rather than a concatenation of several), and retag
// phrases the user has committed before as user-sourced.
// user-dict-above-ties is applied in rank, since it's a comparison
// between candidates rather than a per-candidate adjustment.
func (d *Decoder) applyPostFilters(cands []Candidate, inputLen int, exactSpan map[string]bool) {
	for i := range cands {
		if inputLen <= shortInputThreshold && runeLen(cands[i].Text) > longPhraseRunes {
			cands[i].Score -= demotionPenalty
		}
		if exactSpan[cands[i].Text] {
			cands[i].Score += exactSpanBoost
		}
		if d.userFreq(cands[i].Text) > 0 {
			cands[i].Source = SourceUser
		}
	}
}

// userFreq returns the phrase's committed user-dict frequency, 0 when
// there is no UserDict or the phrase was never committed.
func (d *Decoder) userFreq(text string) uint64 {
	if d.m.UserDict == nil {
		return 0
	}
	f, ok, err := d.m.UserDict.Get(text)
	if err != nil || !ok {
		return 0
	}
	return f
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// rank sorts cands descending by score, breaking ties by higher
// user-dict frequency, then shorter candidate, then lexicographic text.
// The configured margin is applied before the score comparison so a
// user-dict phrase within TieBreakMargin of the leader is treated as
// tied rather than strictly worse.
func (d *Decoder) rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if math.Abs(a.Score-b.Score) > d.m.Cfg.TieBreakMargin {
			return a.Score > b.Score
		}
		af, bf := d.userFreq(a.Text), d.userFreq(b.Text)
		if af != bf {
			return af > bf
		}
		if runeLen(a.Text) != runeLen(b.Text) {
			return runeLen(a.Text) < runeLen(b.Text)
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Text < b.Text
	})
}
