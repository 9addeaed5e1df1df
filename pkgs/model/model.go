// Package model composes Lexicon, n-gram tables, Interpolator, and
// UserDict into the single immutable-once-loaded object the Decoder
// searches over. A Model is constructed once and shared by reference
// across any number of concurrent Sessions; nothing in this package
// mutates Model state after New returns except through the UserDict's
// own transactional writes.
package model

import (
	"github.com/gohanzi/ime/pkgs/config"
	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/fuzzy"
	"github.com/gohanzi/ime/pkgs/interpolator"
	"github.com/gohanzi/ime/pkgs/lexicon"
	"github.com/gohanzi/ime/pkgs/ngram"
	"github.com/gohanzi/ime/pkgs/parser"
	"github.com/gohanzi/ime/pkgs/userdict"
)

// Model is the composed, read-only decoding context: lexicon, n-gram
// tables, interpolation weights, a parser built from Config's vocabulary
// and fuzzy rules, and a reference to the shared mutable UserDict.
type Model struct {
	Cfg        config.Config
	Parser     *parser.Parser
	Lexicon    *lexicon.Lexicon
	Unigram    *ngram.SingleGram
	Bigram     *ngram.BiGram
	Interp     *interpolator.Interpolator
	UserDict   *userdict.UserDict
	Vocabulary []string
}

// Deps bundles the persistent-layer objects New composes into a Model.
// UserDict may be nil: a Model with no UserDict simply contributes 0 to
// P_user, so scoring degrades gracefully when personalization data is
// unavailable.
type Deps struct {
	Vocabulary []string
	Lexicon    *lexicon.Lexicon
	Unigram    *ngram.SingleGram
	Bigram     *ngram.BiGram
	Interp     *interpolator.Interpolator
	UserDict   *userdict.UserDict
}

// New validates cfg's fuzzy rules, builds the Parser over deps.Vocabulary,
// and composes the rest of deps into a Model. A malformed fuzzy rule
// string is a ConfigError, fatal at construction.
func New(cfg config.Config, deps Deps) (*Model, error) {
	fz, err := fuzzy.ParseRules(cfg.FuzzyRules)
	if err != nil {
		return nil, err
	}
	if deps.Lexicon == nil {
		return nil, errcode.Wrapf(errcode.ConfigError, "model: Lexicon is required")
	}
	if deps.Unigram == nil {
		return nil, errcode.Wrapf(errcode.ConfigError, "model: Unigram is required")
	}
	if deps.Interp == nil {
		def, derr := interpolator.Build(nil, cfg.DefaultLambdas)
		if derr != nil {
			return nil, derr
		}
		deps.Interp = def
	}

	p := parser.New(parser.Config{Vocabulary: deps.Vocabulary, Fuzzy: fz})

	return &Model{
		Cfg:        cfg,
		Parser:     p,
		Lexicon:    deps.Lexicon,
		Unigram:    deps.Unigram,
		Bigram:     deps.Bigram,
		Interp:     deps.Interp,
		UserDict:   deps.UserDict,
		Vocabulary: deps.Vocabulary,
	}, nil
}
