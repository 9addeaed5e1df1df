// Package config loads and validates the construction-time configuration
// for a Model.
//
// Config files are TOML and are validated against a JSON Schema before
// any field is trusted, so an invalid fuzzy rule string or an unknown
// weight key never reaches Model construction.
package config

import (
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/fuzzy"
	"github.com/gohanzi/ime/pkgs/interpolator"
)

// Phonetic identifies the romanization system a Config targets.
type Phonetic string

const (
	Pinyin Phonetic = "pinyin"
	Zhuyin Phonetic = "zhuyin"
)

// Config is the construction-time configuration for a Model and its
// Parser/Decoder. Every field here is validated by Parse before use;
// nothing downstream re-checks these invariants.
type Config struct {
	Phonetic Phonetic `toml:"phonetic" json:"phonetic"`

	// FuzzyRules are "A=B:penalty" strings passed to pkgs/fuzzy.ParseRules.
	// Empty means identity-only matching. omitempty keeps a nil slice out
	// of the validation payload, where it would marshal as null and fail
	// the schema's array type.
	FuzzyRules []string `toml:"fuzzy_rules" json:"fuzzy_rules,omitempty"`

	// IncompleteSyllables records whether initial-only zhuyin forms are
	// wanted. model.New does not read it: initial-only forms are admitted
	// only when the caller lists them in the parser's vocabulary.
	IncompleteSyllables bool `toml:"incomplete_syllables" json:"incomplete_syllables"`

	// SegmentationK is the number of top segmentations the decoder
	// requests from the Parser per input.
	SegmentationK int `toml:"segmentation_k" json:"segmentation_k"`

	// CandidateN is the number of ranked candidates the decoder returns
	// per input.
	CandidateN int `toml:"candidate_n" json:"candidate_n"`

	// SegCostWeight is alpha in the path score:
	// sum(edge scores) - alpha * segmentation cost.
	SegCostWeight float64 `toml:"seg_cost_weight" json:"seg_cost_weight"`

	// Epsilon floors zero probabilities before taking a log, keeping
	// scores finite.
	Epsilon float64 `toml:"epsilon" json:"epsilon"`

	// DefaultLambdas is the Interpolator's fallback weight vector for
	// contexts absent from the interpolation-weight store.
	DefaultLambdas interpolator.Lambdas `toml:"default_lambdas" json:"default_lambdas"`

	// UserFreqSmoothing is the additive smoothing constant applied to
	// UserDict frequency before it enters P_user in the scoring formula.
	UserFreqSmoothing float64 `toml:"user_freq_smoothing" json:"user_freq_smoothing"`

	// TieBreakMargin is the score margin within which a user-dict phrase
	// is surfaced above a language-model tie.
	TieBreakMargin float64 `toml:"tie_break_margin" json:"tie_break_margin"`
}

// schema is the JSON Schema Config must validate against. Keys not listed
// here are rejected (additionalProperties: false), giving ConfigError on
// any unknown weight key.
const schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["phonetic", "segmentation_k", "candidate_n", "default_lambdas"],
  "properties": {
    "phonetic": {"enum": ["pinyin", "zhuyin"]},
    "fuzzy_rules": {"type": "array", "items": {"type": "string"}},
    "incomplete_syllables": {"type": "boolean"},
    "segmentation_k": {"type": "integer", "minimum": 1},
    "candidate_n": {"type": "integer", "minimum": 1},
    "seg_cost_weight": {"type": "number", "minimum": 0},
    "epsilon": {"type": "number", "exclusiveMinimum": 0},
    "default_lambdas": {
      "type": "array", "minItems": 3, "maxItems": 3,
      "items": {"type": "number", "minimum": 0, "maximum": 1}
    },
    "user_freq_smoothing": {"type": "number", "minimum": 0},
    "tie_break_margin": {"type": "number", "minimum": 0}
  }
}`

// Default returns the configuration used by every end-to-end example in
// this module's tests: pinyin with the standard fuzzy set, K=8 top
// segmentations, N=10 candidates, default lambdas 0.5/0.3/0.2.
func Default() Config {
	return Config{
		Phonetic:          Pinyin,
		FuzzyRules:        fuzzy.PinyinDefaults(),
		SegmentationK:     8,
		CandidateN:        10,
		SegCostWeight:     0.5,
		Epsilon:           1e-6,
		DefaultLambdas:    interpolator.Lambdas{0.5, 0.3, 0.2},
		UserFreqSmoothing: 1.0,
		TieBreakMargin:    0.05,
	}
}

// rawConfig mirrors Config for TOML decoding only: BurntSushi/toml
// decodes array-of-number into a slice, not a fixed-size Go array, so
// DefaultLambdas is staged here before narrowing to interpolator.Lambdas.
type rawConfig struct {
	Phonetic            Phonetic  `toml:"phonetic"`
	FuzzyRules          []string  `toml:"fuzzy_rules"`
	IncompleteSyllables bool      `toml:"incomplete_syllables"`
	SegmentationK       int       `toml:"segmentation_k"`
	CandidateN          int       `toml:"candidate_n"`
	SegCostWeight       float64   `toml:"seg_cost_weight"`
	Epsilon             float64   `toml:"epsilon"`
	DefaultLambdas      []float64 `toml:"default_lambdas"`
	UserFreqSmoothing   float64   `toml:"user_freq_smoothing"`
	TieBreakMargin      float64   `toml:"tie_break_margin"`
}

// Parse decodes TOML source into a Config and validates it against
// schema. A malformed TOML document or a schema violation is a
// ConfigError, fatal at construction. A key rawConfig does not know is
// rejected; an omitted epsilon takes Default's value.
func Parse(tomlSrc string) (Config, error) {
	var raw rawConfig
	md, err := toml.Decode(tomlSrc, &raw)
	if err != nil {
		return Config{}, errcode.Wrapf(errcode.ConfigError, "decode config toml: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errcode.Wrapf(errcode.ConfigError, "unknown config keys %v", undecoded)
	}
	if !md.IsDefined("epsilon") {
		raw.Epsilon = Default().Epsilon
	}
	if len(raw.DefaultLambdas) != interpolator.NumWeights {
		return Config{}, errcode.Wrapf(errcode.ConfigError,
			"default_lambdas must have exactly %d entries, got %d", interpolator.NumWeights, len(raw.DefaultLambdas))
	}
	cfg := Config{
		Phonetic:            raw.Phonetic,
		FuzzyRules:          raw.FuzzyRules,
		IncompleteSyllables: raw.IncompleteSyllables,
		SegmentationK:       raw.SegmentationK,
		CandidateN:          raw.CandidateN,
		SegCostWeight:       raw.SegCostWeight,
		Epsilon:             raw.Epsilon,
		UserFreqSmoothing:   raw.UserFreqSmoothing,
		TieBreakMargin:      raw.TieBreakMargin,
	}
	copy(cfg.DefaultLambdas[:], raw.DefaultLambdas)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema://ime-config.json", strings.NewReader(schema)); err != nil {
		return errcode.Wrap(err, "load config schema")
	}
	sch, err := compiler.Compile("schema://ime-config.json")
	if err != nil {
		return errcode.Wrap(err, "compile config schema")
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return errcode.Wrap(err, "marshal config for validation")
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return errcode.Wrap(err, "unmarshal config for validation")
	}
	if err := sch.Validate(asMap); err != nil {
		return errcode.Wrapf(errcode.ConfigError, "config validation: %v", err)
	}
	if !cfg.DefaultLambdas.Valid() {
		return errcode.Wrapf(errcode.ConfigError, "default_lambdas %v do not sum to 1.0", cfg.DefaultLambdas)
	}
	if _, err := fuzzy.ParseRules(cfg.FuzzyRules); err != nil {
		return err
	}
	return nil
}
