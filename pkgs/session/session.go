// Package session implements the per-input-context buffer/cursor/mode
// state machine that dispatches keystrokes to a closed set of editors
// and commits selections back to the UserDict.
//
// The Editor family (PhoneticEditor, PunctuationEditor, SuggestionEditor)
// is deliberately closed: modes are a fixed enum dispatched by the
// session, not open-ended plugin loading.
package session

import (
	"github.com/gohanzi/ime/pkgs/decoder"
	"github.com/gohanzi/ime/pkgs/model"
)

// KeyEvent is the typed key abstraction editors consume.
type KeyEvent struct {
	Kind  KeyKind
	Char  rune
	Digit int
	Arrow ArrowDir
	Func  string
}

// KeyKind enumerates the KeyEvent variants.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyBackspace
	KeyEnter
	KeySpace
	KeyEscape
	KeyDigit
	KeyArrow
	KeyFunction
)

// ArrowDir enumerates Arrow(Up|Down|Left|Right).
type ArrowDir int

const (
	ArrowUp ArrowDir = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

// EditorResult is what an Editor returns from ProcessKey. Err is set by
// the session when a commit's user-dict write fails after a retry: the
// commit is rejected, the buffer is kept, and Kind reverts to Handled so
// the front-end does not emit the text as accepted.
type EditorResult struct {
	Kind ResultKind
	Text string
	Mode InputMode
	Err  error
}

// ResultKind enumerates the EditorResult variants.
type ResultKind int

const (
	ResultHandled ResultKind = iota
	ResultCommit
	ResultCommitAndReset
	ResultModeSwitch
	ResultPassThrough
)

// InputMode is the session's current editor selector.
type InputMode int

const (
	ModePhonetic InputMode = iota
	ModePunctuation
	ModeSuggestion
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateComposing
	StateChoosing
)

// Editor is the closed-set interface every mode-specific handler
// implements.
type Editor interface {
	ProcessKey(key KeyEvent, s *Session) EditorResult
	UpdateCandidates(s *Session)
	Reset()
	Name() string
	CanHandle(key KeyEvent) bool
}

// Session holds the input buffer, cursor, mode, and candidate list
// across keystrokes. A Session is owned by exactly one caller thread at
// a time; there is no internal locking of session state.
type Session struct {
	m       *model.Model
	d       *decoder.Decoder
	editors map[InputMode]Editor

	buffer []rune
	state  State
	mode   InputMode
	list   CandidateList

	// selectedPrefix holds syllables already committed from the head of
	// the buffer in multi-step composition.
	selectedPrefix string
}

// New builds a Session over m with the standard editor set. fuzzyInput
// controls whether Decoder.Input is called with fuzzy matching enabled.
func New(m *model.Model, fuzzyInput bool) *Session {
	s := &Session{
		m:    m,
		d:    decoder.New(m),
		mode: ModePhonetic,
	}
	s.editors = map[InputMode]Editor{
		ModePhonetic:    &PhoneticEditor{fuzzy: fuzzyInput},
		ModePunctuation: &PunctuationEditor{},
		ModeSuggestion:  &SuggestionEditor{},
	}
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Mode returns the session's current input mode.
func (s *Session) Mode() InputMode { return s.mode }

// Buffer returns the current composed input as a string.
func (s *Session) Buffer() string { return string(s.buffer) }

// Candidates returns the current page of materialized candidates.
func (s *Session) Candidates() []decoder.Candidate { return s.list.Page() }

// ProcessKey dispatches key to the active mode's editor and applies the
// resulting state transition. An escape always discards the buffer and
// returns to Idle regardless of which editor is active.
func (s *Session) ProcessKey(key KeyEvent) EditorResult {
	if key.Kind == KeyEscape {
		s.Reset()
		return EditorResult{Kind: ResultHandled}
	}

	editor := s.editors[s.mode]
	result := editor.ProcessKey(key, s)

	switch result.Kind {
	case ResultModeSwitch:
		s.mode = result.Mode
		s.editors[s.mode].Reset()
	case ResultCommitAndReset:
		if err := s.commit(result.Text); err != nil {
			return EditorResult{Kind: ResultHandled, Err: err}
		}
		s.Reset()
	case ResultCommit:
		if err := s.commit(result.Text); err != nil {
			return EditorResult{Kind: ResultHandled, Err: err}
		}
	}
	return result
}

// commit records the selected text in the user dictionary. A failed
// write is retried once; a second failure rejects the commit and leaves
// the session state (buffer, candidates) untouched for the caller to
// retry or discard.
func (s *Session) commit(text string) error {
	if text == "" || s.m.UserDict == nil {
		return nil
	}
	if err := s.m.UserDict.Bump(text, 1); err == nil {
		return nil
	}
	return s.m.UserDict.Bump(text, 1)
}

// Reset discards the buffer and candidate list and returns to Idle,
// without committing anything.
func (s *Session) Reset() {
	s.buffer = nil
	s.selectedPrefix = ""
	s.list = CandidateList{}
	s.state = StateIdle
	for _, e := range s.editors {
		e.Reset()
	}
}

// UpdateCandidates is idempotent and safe to call whenever the buffer
// changes; it delegates to the active editor.
func (s *Session) UpdateCandidates() {
	s.editors[s.mode].UpdateCandidates(s)
}

// setBuffer replaces the buffer's contents and re-derives candidates —
// the single mutation point editors call so UpdateCandidates never goes
// stale relative to the buffer.
func (s *Session) setBuffer(runes []rune) {
	s.buffer = runes
	s.UpdateCandidates()
}

// MergeCloudCandidates appends cloud-sourced candidates to the current
// page set on an async cloud response; stale responses must be filtered
// by the caller (pkgs/cloud.Client) before reaching here.
func (s *Session) MergeCloudCandidates(cands []decoder.Candidate) {
	s.list.items = append(s.list.items, cands...)
}
