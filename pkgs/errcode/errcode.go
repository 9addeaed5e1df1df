// Package errcode defines the error taxonomy shared by every ime package.
//
// Errors are sentinel values usable with errors.Is/errors.As; call sites
// wrap them with context via crdb.Wrap so that CorruptArtifact and
// StorageIO failures keep a stack trace for diagnosis.
package errcode

import (
	crdb "github.com/cockroachdb/errors"
)

// Sentinel errors. Compare with errors.Is.
var (
	// NotFound is a lookup miss in lexicon / user dict / interpolator.
	// Recovered locally; callers proceed with a fallback.
	NotFound = crdb.New("ime: not found")

	// MalformedInput marks input that cannot be covered by any
	// segmentation (bytes that are not a prefix of any syllable and no
	// fuzzy rule applies).
	MalformedInput = crdb.New("ime: malformed input")

	// CorruptArtifact marks an on-disk file that failed structural
	// validation (bad index, undecodable value block, lambdas out of
	// range). Fatal on load.
	CorruptArtifact = crdb.New("ime: corrupt artifact")

	// StorageIO is a transient I/O error from the user dictionary.
	StorageIO = crdb.New("ime: storage I/O error")

	// ConfigError marks an invalid fuzzy rule string or unknown weight
	// key. Fatal at construction time.
	ConfigError = crdb.New("ime: invalid configuration")
)

// Wrap attaches msg as context to err while preserving errors.Is(err, sentinel).
func Wrap(err error, msg string) error {
	return crdb.Wrap(err, msg)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return crdb.Wrapf(err, format, args...)
}

// Is reports whether err (or anything it wraps) matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}
