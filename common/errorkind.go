package common

import (
	"reflect"

	"github.com/JeffreyRichter/enum/enum"
	"github.com/pkg/errors"
)

// ErrorKind classifies why a scan aborted. All kinds are fatal to the scan;
// there is no retryable subset (retry/backoff, if any, lives below the
// Opener this package talks to).
type ErrorKind uint8

const (
	ErrorKindNone ErrorKind = iota

	// ErrorKindUnsupportedSource is returned when a source is not a path
	// (e.g. an in-memory buffer), which this module never accepts.
	ErrorKindUnsupportedSource

	// ErrorKindSchemaMismatch is returned when a projected column is
	// absent from a file and AllowMissingColumns is false, or a file's
	// schema otherwise conflicts with the scan's first schema.
	ErrorKindSchemaMismatch

	// ErrorKindIO is returned when opening a file, fetching its footer,
	// or fetching a row group failed.
	ErrorKindIO

	// ErrorKindDecode is returned when a column chunk, its statistics,
	// or its dictionary could not be decoded.
	ErrorKindDecode

	// ErrorKindPredicate is returned when the pushed-down predicate
	// raised during evaluation.
	ErrorKindPredicate
)

var EErrorKind = ErrorKind(ErrorKindNone)

func (ErrorKind) None() ErrorKind               { return ErrorKind(ErrorKindNone) }
func (ErrorKind) UnsupportedSource() ErrorKind   { return ErrorKind(ErrorKindUnsupportedSource) }
func (ErrorKind) SchemaMismatch() ErrorKind      { return ErrorKind(ErrorKindSchemaMismatch) }
func (ErrorKind) IO() ErrorKind                  { return ErrorKind(ErrorKindIO) }
func (ErrorKind) Decode() ErrorKind              { return ErrorKind(ErrorKindDecode) }
func (ErrorKind) Predicate() ErrorKind           { return ErrorKind(ErrorKindPredicate) }

func (k ErrorKind) String() string {
	switch k {
	case EErrorKind.None():
		return "None"
	case EErrorKind.UnsupportedSource():
		return "unsupported-source"
	case EErrorKind.SchemaMismatch():
		return "schema-mismatch"
	case EErrorKind.IO():
		return "io-error"
	case EErrorKind.Decode():
		return "decode-error"
	case EErrorKind.Predicate():
		return "predicate-error"
	default:
		return enum.StringInt(k, reflect.TypeOf(k))
	}
}

// ScanError is a fatal scan error tagged with its ErrorKind, so callers of
// Source.GetBatches can branch on failure category without string-matching.
type ScanError struct {
	Kind ErrorKind
	Path string // file path or URI the failure occurred on, if any
	Err  error
}

func (e *ScanError) Error() string {
	if e.Path == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + " (" + e.Path + "): " + e.Err.Error()
}

func (e *ScanError) Unwrap() error { return e.Err }

// NewScanError wraps err with github.com/pkg/errors (so the fatal site keeps
// a stack trace) and tags it with the given ErrorKind.
func NewScanError(kind ErrorKind, path string, err error) *ScanError {
	return &ScanError{Kind: kind, Path: path, Err: errors.WithStack(err)}
}
