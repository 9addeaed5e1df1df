// Package wadegiles rewrites Wade-Giles romanization into pinyin before
// it reaches the Parser. This is a pure string pre-pass, not a FuzzyMap
// rule: Wade-Giles forms are not alternate spellings scored against
// pinyin, they are translated away first.
package wadegiles

import "strings"

// rewrite is one ordered substitution. Longer, more specific patterns
// are listed before shorter ones so e.g. "ch'" is tried before "ch".
type rewrite struct {
	from string
	to   string
}

// rules covers the initial consonant conversions: aspirated stops
// marked by a trailing apostrophe map to pinyin's unaspirated-letter
// forms, their unmarked counterparts map to the voiced/different pinyin
// letter, and a handful of digraphs have no apostrophe distinction at
// all. ch/ch' is handled separately by palatalPrefix below rather than
// here, since its pinyin target depends on the following vowel.
var rules = []rewrite{
	{"ts'", "c"},
	{"tz'", "c"},
	{"ts", "z"},
	{"tz", "z"},
	{"hs", "x"},
	{"p'", "p"},
	{"t'", "t"},
	{"k'", "k"},
	{"p", "b"},
	{"t", "d"},
	{"k", "g"},
	{"j", "r"},
}

// Convert rewrites a single Wade-Giles syllable (lowercase, apostrophe
// for aspiration, no tone marks) into its pinyin equivalent. Syllables
// already in pinyin form (no rule matches) pass through unchanged.
func Convert(syllable string) string {
	s := strings.ToLower(syllable)
	if out, ok := palatalPrefix(s); ok {
		return out
	}
	for _, r := range rules {
		if strings.HasPrefix(s, r.from) {
			return r.to + strings.TrimPrefix(s, r.from)
		}
	}
	return s
}

// palatalPrefix handles the ch'/ch digraph, which splits into two
// distinct pinyin series depending on the final: before a genuine "i"
// vowel it is the palatal j/q series (ch'ing -> qing, ching -> jing,
// so "pei-ching" -> "beijing"); everywhere else, including the "ih"
// spelling of the retroflex apical vowel (chih -> zhih), it is the
// retroflex zh/ch series. Vowel respellings (ung -> ong, ih -> i,
// u -> i after ts/tz) are out of scope here.
func palatalPrefix(s string) (string, bool) {
	aspirated := strings.HasPrefix(s, "ch'")
	if !aspirated && !strings.HasPrefix(s, "ch") {
		return "", false
	}
	prefixLen := 2
	if aspirated {
		prefixLen = 3
	}
	rest := s[prefixLen:]
	palatal := strings.HasPrefix(rest, "i") && !strings.HasPrefix(rest, "ih")

	target := "zh"
	if aspirated {
		target = "ch"
	}
	if palatal {
		target = "j"
		if aspirated {
			target = "q"
		}
	}
	return target + rest, true
}

// ConvertAll applies Convert to a whitespace- or hyphen-separated
// Wade-Giles string, returning the joined pinyin form. Front-ends that
// accept Wade-Giles input call this before handing the result to a
// Session in phonetic mode.
func ConvertAll(input string) string {
	sep := func(r rune) bool { return r == ' ' || r == '-' }
	parts := strings.FieldsFunc(input, sep)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Convert(p)
	}
	return strings.Join(out, "")
}
