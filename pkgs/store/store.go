// Package store implements the on-disk artifact framing shared by the
// Lexicon, Interpolator, and n-gram persistent stores: a fixed preamble
// (MAGIC | VERSION | FLAGS | HEADER_LEN | BODY_LEN) followed by a
// cbor-encoded header and a sequence of length-prefixed value blocks.
package store

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/gohanzi/ime/pkgs/errcode"
	"golang.org/x/mod/semver"
)

// Magic identifies an artifact produced by this module's store writers.
const Magic = "IME1"

// FormatVersion is the semver this build writes and the minimum it can
// read; artifacts with a newer major version are rejected.
const FormatVersion = "v1.0.0"

// Header is the artifact's structural metadata, stored cbor-encoded.
type Header struct {
	Kind          string // "lexicon", "interpolator", "unigram" or "bigram"
	FormatVersion string // semver string, e.g. "v1.0.0"
	EntryCount    uint32
}

// Write serializes kind, one cbor-encoded block per entry, to w. Entries
// are written in the order given; callers that need lexicographic key
// order must sort before calling Write.
func Write(w io.Writer, kind string, entries [][]byte) error {
	header := Header{Kind: kind, FormatVersion: FormatVersion, EntryCount: uint32(len(entries))}
	headerBytes, err := cbor.Marshal(header)
	if err != nil {
		return errcode.Wrap(err, "encode store header")
	}

	var body bytes.Buffer
	for _, e := range entries {
		if err := binary.Write(&body, binary.LittleEndian, uint32(len(e))); err != nil {
			return errcode.Wrap(err, "write entry length")
		}
		if _, err := body.Write(e); err != nil {
			return errcode.Wrap(err, "write entry")
		}
	}

	if _, err := w.Write([]byte(Magic)); err != nil {
		return err
	}
	versionBytes := []byte(FormatVersion)
	if err := binary.Write(w, binary.LittleEndian, uint16(len(versionBytes))); err != nil {
		return err
	}
	if _, err := w.Write(versionBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil { // flags, reserved
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(headerBytes))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(body.Len())); err != nil {
		return err
	}
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	_, err = w.Write(body.Bytes())
	return err
}

const (
	maxHeaderLen = 16 * 1024 * 1024
	maxBodyLen   = 2 * 1024 * 1024 * 1024
)

// Read parses an artifact written by Write, verifying the magic and
// format-version compatibility before returning the header and the raw
// entry blocks in on-disk order.
func Read(r io.Reader) (Header, [][]byte, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read magic")
	}
	if string(magic[:]) != Magic {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "bad magic %q", magic[:])
	}

	var versionLen uint16
	if err := binary.Read(r, binary.LittleEndian, &versionLen); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read version length")
	}
	versionBytes := make([]byte, versionLen)
	if _, err := io.ReadFull(r, versionBytes); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read version")
	}
	onDiskVersion := string(versionBytes)
	if !semver.IsValid(onDiskVersion) {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "invalid format version %q", onDiskVersion)
	}
	if semver.Major(onDiskVersion) != semver.Major(FormatVersion) {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact,
			"artifact format version %q is incompatible with supported %q", onDiskVersion, FormatVersion)
	}

	var flagBits uint16
	if err := binary.Read(r, binary.LittleEndian, &flagBits); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read flags")
	}

	var headerLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read header length")
	}
	var bodyLen uint64
	if err := binary.Read(r, binary.LittleEndian, &bodyLen); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read body length")
	}
	if headerLen > maxHeaderLen {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "header length %d exceeds maximum", headerLen)
	}
	if bodyLen > maxBodyLen {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "body length %d exceeds maximum", bodyLen)
	}

	headerBuf := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read header")
	}
	var header Header
	if err := cbor.Unmarshal(headerBuf, &header); err != nil {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "decode header: %v", err)
	}

	bodyBuf := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, bodyBuf); err != nil {
		return Header{}, nil, errcode.Wrap(err, "read body")
	}
	body := bytes.NewReader(bodyBuf)

	entries := make([][]byte, 0, header.EntryCount)
	for i := uint32(0); i < header.EntryCount; i++ {
		var n uint32
		if err := binary.Read(body, binary.LittleEndian, &n); err != nil {
			return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "read entry %d length: %v", i, err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(body, buf); err != nil {
			return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "read entry %d: %v", i, err)
		}
		entries = append(entries, buf)
	}
	if body.Len() != 0 {
		return Header{}, nil, errcode.Wrapf(errcode.CorruptArtifact, "%d trailing bytes after entries", body.Len())
	}

	return header, entries, nil
}
