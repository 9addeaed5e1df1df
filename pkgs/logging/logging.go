// Package logging provides structured logging for the persistence layer
// (UserDict open and commit) and the cmd tools. The hot path of segmentation and
// decoding never logs; only I/O-bound operations do.
//
// Field names are a small set of constants instead of ad-hoc strings,
// so call sites stay grep-able.
package logging

import "go.uber.org/zap"

// Standard field names, kept narrow to what this module actually logs.
const (
	FieldComponent = "component"
	FieldPath      = "path"
	FieldOperation = "operation"
	FieldPhrase    = "phrase"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
)

// New builds a production zap.SugaredLogger. Callers that don't want
// logging (tests, embedders that disable it) can pass zap.NewNop().Sugar().
func New() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Nop returns a logger that discards everything, for tests and library
// consumers that haven't configured logging.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Component returns a child logger tagged with the owning component name,
// e.g. logging.Component(log, "lexicon").
func Component(log *zap.SugaredLogger, name string) *zap.SugaredLogger {
	return log.With(FieldComponent, name)
}
