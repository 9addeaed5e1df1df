package session

// PhoneticEditor drives ordinary syllable composition: characters
// accumulate in the buffer, space/enter materializes candidates and
// moves to Choosing, a digit commits the selected candidate.
type PhoneticEditor struct {
	fuzzy bool
}

func (e *PhoneticEditor) Name() string { return "phonetic" }

func (e *PhoneticEditor) CanHandle(key KeyEvent) bool {
	switch key.Kind {
	case KeyChar, KeyBackspace, KeyEnter, KeySpace, KeyDigit, KeyArrow:
		return true
	default:
		return false
	}
}

func (e *PhoneticEditor) Reset() {}

func (e *PhoneticEditor) ProcessKey(key KeyEvent, s *Session) EditorResult {
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

	case KeySpace, KeyEnter:
		if s.state != StateComposing || len(s.buffer) == 0 {
			return EditorResult{Kind: ResultPassThrough}
		}
		s.state = StateChoosing
		s.UpdateCandidates()
		return EditorResult{Kind: ResultHandled}

	case KeyDigit:
		if s.state != StateChoosing {
			return EditorResult{Kind: ResultPassThrough}
		}
		cand, ok := s.list.At(key.Digit)
		if !ok {
			return EditorResult{Kind: ResultHandled}
		}
		return EditorResult{Kind: ResultCommitAndReset, Text: cand.Text}

	case KeyArrow:
		if s.state != StateChoosing {
			return EditorResult{Kind: ResultPassThrough}
		}
		switch key.Arrow {
		case ArrowDown, ArrowRight:
			s.list.NextPage()
		case ArrowUp, ArrowLeft:
			s.list.PrevPage()
		}
		return EditorResult{Kind: ResultHandled}

	default:
		return EditorResult{Kind: ResultPassThrough}
	}
}

func (e *PhoneticEditor) UpdateCandidates(s *Session) {
	if len(s.buffer) == 0 {
		s.list = CandidateList{}
		return
	}
	cands := s.d.Input(string(s.buffer), e.fuzzy)
	s.list = NewCandidateList(cands, DefaultPageSize)
}
