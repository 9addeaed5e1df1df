// Package fuzzy implements the symmetric syllable-confusion relation
// used by the segmentation parser.
//
// Rule strings have the form "A=B:penalty". The relation is symmetric by
// construction (inserting A=B also inserts B=A) and composes only as far
// as the caller enumerates; there is no transitive closure.
package fuzzy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gohanzi/ime/pkgs/errcode"
)

// Alternative is one fuzzy-reachable spelling with its penalty.
type Alternative struct {
	Text    string
	Penalty float64
}

// Map is a symmetric syllable-confusion relation with per-rule penalties.
type Map struct {
	// alts[s] holds every alternative reachable from s, identity excluded.
	alts map[string][]Alternative
}

// New builds an identity-only Map (no fuzzy rules).
func New() *Map {
	return &Map{alts: make(map[string][]Alternative)}
}

// ParseRules builds a Map from rule strings formatted "A=B:penalty".
// An empty slice produces an identity-only map. A malformed rule string
// is a ConfigError, fatal at construction.
func ParseRules(rules []string) (*Map, error) {
	m := New()
	for _, r := range rules {
		if err := m.addRule(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Map) addRule(rule string) error {
	eq := strings.IndexByte(rule, '=')
	colon := strings.LastIndexByte(rule, ':')
	if eq < 0 || colon < 0 || colon < eq {
		return errcode.Wrapf(errcode.ConfigError, "fuzzy rule %q: expected \"A=B:penalty\"", rule)
	}
	a := rule[:eq]
	b := rule[eq+1 : colon]
	penStr := rule[colon+1:]
	if a == "" || b == "" {
		return errcode.Wrapf(errcode.ConfigError, "fuzzy rule %q: empty syllable", rule)
	}
	penalty, err := strconv.ParseFloat(penStr, 64)
	if err != nil {
		return errcode.Wrapf(errcode.ConfigError, "fuzzy rule %q: invalid penalty: %v", rule, err)
	}
	if penalty < 1.0 {
		return errcode.Wrapf(errcode.ConfigError, "fuzzy rule %q: penalty must be >= 1.0, got %v", rule, penalty)
	}
	m.link(a, b, penalty)
	m.link(b, a, penalty)
	return nil
}

func (m *Map) link(from, to string, penalty float64) {
	for _, existing := range m.alts[from] {
		if existing.Text == to {
			return
		}
	}
	m.alts[from] = append(m.alts[from], Alternative{Text: to, Penalty: penalty})
}

// Alternatives returns every spelling reachable from s by one fuzzy
// rewrite, always including (s, 0.0) as the identity match first,
// followed by the rest sorted for determinism.
func (m *Map) Alternatives(s string) []Alternative {
	rest := append([]Alternative(nil), m.alts[s]...)
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].Penalty != rest[j].Penalty {
			return rest[i].Penalty < rest[j].Penalty
		}
		return rest[i].Text < rest[j].Text
	})
	out := make([]Alternative, 0, len(rest)+1)
	out = append(out, Alternative{Text: s, Penalty: 0.0})
	out = append(out, rest...)
	return out
}

// PinyinDefaults returns the standard pinyin fuzzy-confusion rule set:
// zi/zhi, si/shi, ci/chi, l/n, f/h, in/ing, en/eng, an/ang.
func PinyinDefaults() []string {
	return []string{
		"zi=zhi:1.5",
		"si=shi:1.5",
		"ci=chi:1.5",
		"l=n:1.0",
		"f=h:1.0",
		"in=ing:1.5",
		"en=eng:1.5",
		"an=ang:1.5",
	}
}

// ZhuyinDefaults returns the default zhuyin fuzzy rule set, which is
// empty: keyboard-layout corrections (HSU/ETEN26/shuffle) are not
// expressed as phonetic fuzzies. parser.Config has no layout-correction
// setting either, so no such corrections are applied.
func ZhuyinDefaults() []string {
	return nil
}
