// Package lexicon implements the read-only map from syllable-key to the
// group of PhraseEntry known for that key.
//
// The backing store is an ordered string -> integer index (a patricia
// trie) whose values are offsets into a value table of cbor-encoded
// PhraseEntry groups, framed on disk by pkgs/store. The value table is
// decoded lazily through a bounded LRU cache rather than memory-mapped,
// since Go has no portable mmap story.
package lexicon

import (
	"io"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/store"
)

// PhraseEntry is one phrase sharing a syllable-key.
type PhraseEntry struct {
	Text  string `cbor:"text"`
	Token uint32 `cbor:"token"`
	Freq  uint32 `cbor:"freq"`
}

// Group is the non-empty ordered list of PhraseEntry a lookup returns.
type Group []PhraseEntry

const defaultCacheSize = 4096

// Lexicon is an immutable, read-only syllable-key -> Group map, safe
// for concurrent use by many sessions.
type Lexicon struct {
	index   *patricia.Trie // key -> uint32 value-table offset
	entries [][]byte       // cbor-encoded Group blocks, on-disk order
	cache   *lru.Cache[uint32, Group]
}

// Build constructs a Lexicon directly from key -> Group pairs, sorting
// keys lexicographically so lookup_prefix iterates in order. Used by
// cmd/convert-table and by tests.
func Build(groups map[string]Group) (*Lexicon, error) {
	keys := make([]string, 0, len(groups))
	for k, g := range groups {
		if len(g) == 0 {
			return nil, errcode.Wrapf(errcode.MalformedInput, "empty phrase group for key %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	index := patricia.NewTrie()
	entries := make([][]byte, 0, len(keys))
	for i, k := range keys {
		blob, err := cbor.Marshal(groups[k])
		if err != nil {
			return nil, errcode.Wrap(err, "encode phrase group")
		}
		entries = append(entries, blob)
		index.Insert(patricia.Prefix(k), uint32(i))
	}

	cache, err := lru.New[uint32, Group](defaultCacheSize)
	if err != nil {
		return nil, errcode.Wrap(err, "build lexicon cache")
	}
	return &Lexicon{index: index, entries: entries, cache: cache}, nil
}

// Write serializes the lexicon's value table (in on-disk entry order)
// to w using pkgs/store's artifact framing. The index itself is not
// persisted here; Load rebuilds it from the key list written alongside
// the value table.
func (l *Lexicon) Write(w io.Writer) error {
	return store.Write(w, "lexicon", l.entries)
}

// Load reads a Lexicon value table previously written by Write, paired
// with the sorted key list that produced it (cmd/convert-table persists
// the key list alongside the value table; see pkgs/lexicon/keys.go).
func Load(r io.Reader, sortedKeys []string) (*Lexicon, error) {
	header, entries, err := store.Read(r)
	if err != nil {
		return nil, err
	}
	if header.Kind != "lexicon" {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "artifact kind %q, expected lexicon", header.Kind)
	}
	if len(sortedKeys) != len(entries) {
		return nil, errcode.Wrapf(errcode.CorruptArtifact,
			"key list length %d does not match value table length %d", len(sortedKeys), len(entries))
	}

	// Validate every block up front: a lookup must never be the first
	// place a corrupt group is discovered.
	for i, blob := range entries {
		var g Group
		if err := cbor.Unmarshal(blob, &g); err != nil {
			return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode phrase group %d: %v", i, err)
		}
		if len(g) == 0 {
			return nil, errcode.Wrapf(errcode.CorruptArtifact, "empty phrase group for key %q", sortedKeys[i])
		}
		for _, e := range g {
			if e.Text == "" {
				return nil, errcode.Wrapf(errcode.CorruptArtifact,
					"phrase entry with empty text in group %q", sortedKeys[i])
			}
		}
	}

	index := patricia.NewTrie()
	for i, k := range sortedKeys {
		index.Insert(patricia.Prefix(k), uint32(i))
	}

	cache, err := lru.New[uint32, Group](defaultCacheSize)
	if err != nil {
		return nil, errcode.Wrap(err, "build lexicon cache")
	}
	return &Lexicon{index: index, entries: entries, cache: cache}, nil
}

// Lookup returns the phrase group for an exact key, or false if absent.
func (l *Lexicon) Lookup(key string) (Group, bool) {
	v := l.index.Get(patricia.Prefix(key))
	if v == nil {
		return nil, false
	}
	idx := v.(uint32)
	if g, ok := l.cache.Get(idx); ok {
		return g, true
	}
	var g Group
	if err := cbor.Unmarshal(l.entries[idx], &g); err != nil {
		return nil, false
	}
	l.cache.Add(idx, g)
	return g, true
}

// PrefixEntry is one (key, group) pair returned by LookupPrefix.
type PrefixEntry struct {
	Key   string
	Group Group
}

// LookupPrefix returns every (key, group) pair whose key has prefix,
// ordered lexicographically by key — used by completion features.
func (l *Lexicon) LookupPrefix(prefix string) []PrefixEntry {
	var out []PrefixEntry
	l.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		idx := item.(uint32)
		g, err := l.decode(idx)
		if err != nil {
			return nil
		}
		out = append(out, PrefixEntry{Key: string(p), Group: g})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (l *Lexicon) decode(idx uint32) (Group, error) {
	if g, ok := l.cache.Get(idx); ok {
		return g, nil
	}
	var g Group
	if err := cbor.Unmarshal(l.entries[idx], &g); err != nil {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode phrase group %d: %v", idx, err)
	}
	l.cache.Add(idx, g)
	return g, nil
}

// SortedKeys returns every key in the lexicon in lexicographic order —
// the key list cmd/convert-table writes alongside the value table so
// Load can rebuild the index without re-scanning the source table.
func (l *Lexicon) SortedKeys() []string {
	var keys []string
	l.index.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		keys = append(keys, string(p))
		return nil
	})
	sort.Strings(keys)
	return keys
}

// JoinKey builds the underscore-joined lexicon key for a syllable
// sequence — re-exported here so callers outside pkgs/syllable don't
// need a second import just to build a lookup key.
func JoinKey(syllables []string) string {
	return strings.Join(syllables, "_")
}
