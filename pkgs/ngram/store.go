package ngram

import (
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/store"
)

// Write serializes a SingleGram to w using pkgs/store's artifact
// framing: one cbor-encoded Entry per block, ascending by token, plus a
// trailing block holding just the total-frequency normalization
// constant (the same "entries then a tagged footer" shape
// pkgs/interpolator.Write uses for its default-lambdas block).
func (s *SingleGram) Write(w io.Writer) error {
	all := s.RetrieveAll()
	entries := make([][]byte, 0, len(all)+1)
	for _, r := range all {
		blob, err := cbor.Marshal(Entry{Token: r.Token, Freq: r.Freq})
		if err != nil {
			return errcode.Wrap(err, "encode ngram entry")
		}
		entries = append(entries, blob)
	}
	footer, err := cbor.Marshal(totalFreqFooter{Marker: true, Total: s.totalFreq})
	if err != nil {
		return errcode.Wrap(err, "encode ngram total")
	}
	entries = append(entries, footer)
	return store.Write(w, "unigram", entries)
}

type totalFreqFooter struct {
	// Marker distinguishes the footer block from an Entry block: a real
	// token frequency record never sets this field, footers always do.
	Marker bool   `cbor:"footer"`
	Total  uint64 `cbor:"total"`
}

// Load reads a SingleGram previously written by Write.
func Load(r io.Reader) (*SingleGram, error) {
	header, blocks, err := store.Read(r)
	if err != nil {
		return nil, err
	}
	if header.Kind != "unigram" {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "artifact kind %q, expected unigram", header.Kind)
	}
	if len(blocks) == 0 {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "unigram artifact missing total-frequency footer")
	}

	s := New()
	for i, blob := range blocks {
		if i == len(blocks)-1 {
			var f totalFreqFooter
			if err := cbor.Unmarshal(blob, &f); err != nil || !f.Marker {
				return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode unigram total-frequency footer: %v", err)
			}
			s.SetTotalFreq(f.Total)
			continue
		}
		var e Entry
		if err := cbor.Unmarshal(blob, &e); err != nil {
			return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode ngram entry %d: %v", i, err)
		}
		s.InsertFreq(e.Token, e.Freq)
	}
	return s, nil
}

// WriteBiGram serializes a full BiGram as a sequence of (prevToken,
// SingleGram) records. cbor has no native "map of sub-artifacts" shape,
// so the nesting is flattened into one record per preceding token.
func WriteBiGram(w io.Writer, b *BiGram) error {
	tokens := make([]uint32, 0, len(b.next))
	for t := range b.next {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	entries := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		g := b.next[t]
		all := g.RetrieveAll()
		rec := bigramRecord{PrevToken: t, TotalFreq: g.totalFreq}
		for _, r := range all {
			rec.Entries = append(rec.Entries, Entry{Token: r.Token, Freq: r.Freq})
		}
		blob, err := cbor.Marshal(rec)
		if err != nil {
			return errcode.Wrap(err, "encode bigram record")
		}
		entries = append(entries, blob)
	}
	return store.Write(w, "bigram", entries)
}

type bigramRecord struct {
	PrevToken uint32  `cbor:"prev"`
	TotalFreq uint64  `cbor:"total"`
	Entries   []Entry `cbor:"entries"`
}

// LoadBiGram reads a BiGram previously written by WriteBiGram.
func LoadBiGram(r io.Reader) (*BiGram, error) {
	header, blocks, err := store.Read(r)
	if err != nil {
		return nil, err
	}
	if header.Kind != "bigram" {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "artifact kind %q, expected bigram", header.Kind)
	}

	b := NewBiGram()
	for i, blob := range blocks {
		var rec bigramRecord
		if err := cbor.Unmarshal(blob, &rec); err != nil {
			return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode bigram record %d: %v", i, err)
		}
		g := b.GetOrCreate(rec.PrevToken)
		for _, e := range rec.Entries {
			g.InsertFreq(e.Token, e.Freq)
		}
		g.SetTotalFreq(rec.TotalFreq)
	}
	return b, nil
}
