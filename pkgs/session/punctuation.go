package session

import "github.com/gohanzi/ime/pkgs/decoder"

// punctuationTable maps a typed ASCII punctuation mark to its full-width
// candidates, most preferred first. Half-width passthrough is always the
// last candidate so "accept as typed" is never unreachable.
var punctuationTable = map[rune][]string{
	',':  {"，"},
	'.':  {"。"},
	'?':  {"？"},
	'!':  {"！"},
	':':  {"："},
	';':  {"；"},
	'(':  {"（"},
	')':  {"）"},
	'"':  {"“", "”"},
	'\'': {"‘", "’"},
	'<':  {"《"},
	'>':  {"》"},
	'\\': {"、"},
}

// PunctuationEditor maps a single typed ASCII punctuation key to its
// full-width candidates. It never grows a multi-character buffer: each
// key press replaces the pending mark and re-lists candidates.
type PunctuationEditor struct {
	pending rune
	has     bool
}

func (e *PunctuationEditor) Name() string { return "punctuation" }

func (e *PunctuationEditor) CanHandle(key KeyEvent) bool {
	if key.Kind != KeyChar {
		return false
	}
	_, ok := punctuationTable[key.Char]
	return ok
}

func (e *PunctuationEditor) Reset() {
	e.pending = 0
	e.has = false
}

func (e *PunctuationEditor) ProcessKey(key KeyEvent, s *Session) EditorResult {
	switch key.Kind {
	case KeyChar:
		if _, ok := punctuationTable[key.Char]; !ok {
			return EditorResult{Kind: ResultPassThrough}
		}
		e.pending = key.Char
		e.has = true
		s.state = StateChoosing
		s.setBuffer([]rune{key.Char})
		return EditorResult{Kind: ResultHandled}

	case KeyDigit:
		if !e.has {
			return EditorResult{Kind: ResultPassThrough}
		}
		cand, ok := s.list.At(key.Digit)
		if !ok {
			return EditorResult{Kind: ResultHandled}
		}
		return EditorResult{Kind: ResultCommitAndReset, Text: cand.Text}

	case KeySpace, KeyEnter:
		if !e.has {
			return EditorResult{Kind: ResultPassThrough}
		}
		cand, ok := s.list.At(0)
		if !ok {
			return EditorResult{Kind: ResultHandled}
		}
		return EditorResult{Kind: ResultCommitAndReset, Text: cand.Text}

	default:
		return EditorResult{Kind: ResultPassThrough}
	}
}

func (e *PunctuationEditor) UpdateCandidates(s *Session) {
	if !e.has {
		s.list = CandidateList{}
		return
	}
	forms := punctuationTable[e.pending]
	cands := make([]decoder.Candidate, 0, len(forms)+1)
	for _, f := range forms {
		cands = append(cands, decoder.Candidate{Text: f, Source: decoder.SourcePunctuation})
	}
	cands = append(cands, decoder.Candidate{Text: string(e.pending), Source: decoder.SourcePunctuation})
	s.list = NewCandidateList(cands, DefaultPageSize)
}
