// Package interpolator resolves a decoding context to the lambda
// weights used to mix unigram, bigram, and user-frequency scores.
//
// Context signatures are a blake2b fingerprint of the preceding token
// sequence (unkeyed; the signature is not security-sensitive),
// compacted to a readable id with pkgs/store's base58 encoder.
package interpolator

import (
	"io"
	"math"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/store"
)

// NumWeights is the fixed arity of a Lambdas vector: unigram, bigram,
// user-frequency.
const NumWeights = 3

// Lambdas is a fixed-length interpolation weight vector. Weights must
// sum to 1.0 within 1e-2 tolerance.
type Lambdas [NumWeights]float64

// Valid reports whether the weights are in [0,1] and sum to ~1.0.
func (l Lambdas) Valid() bool {
	var sum float64
	for _, w := range l {
		if w < 0 || w > 1 {
			return false
		}
		sum += w
	}
	return math.Abs(sum-1.0) <= 1e-2
}

// BeginSentence is the leading marker for a beginning-of-sentence
// context signature.
const BeginSentence = "#"

// Signature builds the deterministic context-signature string for a
// sequence of preceding tokens: a base58 digest prefixed with the
// BeginSentence marker at sentence start and with "k" otherwise. An
// empty tokens slice at sentence start still carries a digest (of the
// marker alone) after the "#".
func Signature(tokens []uint32, atSentenceStart bool) string {
	h, _ := blake2b.New256(nil)
	if atSentenceStart {
		h.Write([]byte(BeginSentence))
	}
	for _, t := range tokens {
		var b [4]byte
		b[0] = byte(t >> 24)
		b[1] = byte(t >> 16)
		b[2] = byte(t >> 8)
		b[3] = byte(t)
		h.Write(b[:])
	}
	digest := h.Sum(nil)
	var first8 [8]byte
	copy(first8[:], digest[:8])
	sig := store.EncodeBase58(first8)
	if atSentenceStart {
		return BeginSentence + sig
	}
	return "k" + sig
}

type entry struct {
	Signature string  `cbor:"sig"`
	Weights   Lambdas `cbor:"w"`
}

// Interpolator is an immutable signature -> Lambdas map with a default
// fallback for unseen contexts.
type Interpolator struct {
	byKey map[string]Lambdas
	def   Lambdas
}

// Build constructs an Interpolator from explicit (signature, Lambdas)
// pairs plus the default fallback used for contexts with no entry.
func Build(weights map[string]Lambdas, def Lambdas) (*Interpolator, error) {
	if !def.Valid() {
		return nil, errcode.Wrapf(errcode.ConfigError, "default lambdas %v do not sum to 1.0", def)
	}
	for sig, w := range weights {
		if !w.Valid() {
			return nil, errcode.Wrapf(errcode.ConfigError, "lambdas for context %q do not sum to 1.0: %v", sig, w)
		}
	}
	byKey := make(map[string]Lambdas, len(weights))
	for k, v := range weights {
		byKey[k] = v
	}
	return &Interpolator{byKey: byKey, def: def}, nil
}

// Lookup returns the Lambdas for a context signature, or false if the
// context has no explicit entry (callers fall back to Default()).
func (in *Interpolator) Lookup(signature string) (Lambdas, bool) {
	w, ok := in.byKey[signature]
	return w, ok
}

// Default returns the fallback Lambdas used for contexts absent from
// the store.
func (in *Interpolator) Default() Lambdas {
	return in.def
}

// Write serializes the interpolator to w using pkgs/store's artifact
// framing, one cbor-encoded (signature, Lambdas) entry per block plus
// a final block holding the default.
func (in *Interpolator) Write(w io.Writer) error {
	sigs := make([]string, 0, len(in.byKey))
	for s := range in.byKey {
		sigs = append(sigs, s)
	}
	sort.Strings(sigs)

	entries := make([][]byte, 0, len(sigs)+1)
	for _, s := range sigs {
		blob, err := cbor.Marshal(entry{Signature: s, Weights: in.byKey[s]})
		if err != nil {
			return errcode.Wrap(err, "encode interpolator entry")
		}
		entries = append(entries, blob)
	}
	defBlob, err := cbor.Marshal(entry{Signature: "", Weights: in.def})
	if err != nil {
		return errcode.Wrap(err, "encode default lambdas")
	}
	entries = append(entries, defBlob)

	return store.Write(w, "interpolator", entries)
}

// Load reads an Interpolator previously written by Write.
func Load(r io.Reader) (*Interpolator, error) {
	header, blocks, err := store.Read(r)
	if err != nil {
		return nil, err
	}
	if header.Kind != "interpolator" {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "artifact kind %q, expected interpolator", header.Kind)
	}
	if len(blocks) == 0 {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "interpolator artifact missing default lambdas block")
	}

	byKey := make(map[string]Lambdas, len(blocks)-1)
	var def Lambdas
	for i, blob := range blocks {
		var e entry
		if err := cbor.Unmarshal(blob, &e); err != nil {
			return nil, errcode.Wrapf(errcode.CorruptArtifact, "decode interpolator entry %d: %v", i, err)
		}
		if !e.Weights.Valid() {
			return nil, errcode.Wrapf(errcode.CorruptArtifact,
				"lambdas for context %q do not sum to 1.0: %v", e.Signature, e.Weights)
		}
		if i == len(blocks)-1 && e.Signature == "" {
			def = e.Weights
			continue
		}
		byKey[e.Signature] = e.Weights
	}
	if !def.Valid() {
		return nil, errcode.Wrapf(errcode.CorruptArtifact, "default lambdas %v do not sum to 1.0", def)
	}
	return &Interpolator{byKey: byKey, def: def}, nil
}
