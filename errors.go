package shapefile

import (
	"github.com/cockroachdb/errors"
)

// MalformedFileError reports a signature mismatch, an impossible header
// value, a truncated record, or a content length too short for the
// declared shape type.
type MalformedFileError struct{ cause error }

func (e *MalformedFileError) Error() string { return e.cause.Error() }
func (e *MalformedFileError) Unwrap() error { return e.cause }

func newMalformedFileError(format string, args ...any) error {
	return &MalformedFileError{cause: errors.Newf(format, args...)}
}

func wrapMalformedFileError(cause error, format string, args ...any) error {
	return &MalformedFileError{cause: errors.Wrapf(cause, format, args...)}
}

// OutOfRangeError reports an oid beyond the record/shape count, or a
// seek past the end of a stream.
type OutOfRangeError struct{ cause error }

func (e *OutOfRangeError) Error() string { return e.cause.Error() }
func (e *OutOfRangeError) Unwrap() error { return e.cause }

func newOutOfRangeError(format string, args ...any) error {
	return &OutOfRangeError{cause: errors.Newf(format, args...)}
}

// SchemaError reports a field added after records exist, zero fields on
// writer close, an unknown field kind, or a length/decimal outside the
// valid range.
type SchemaError struct{ cause error }

func (e *SchemaError) Error() string { return e.cause.Error() }
func (e *SchemaError) Unwrap() error { return e.cause }

func newSchemaError(format string, args ...any) error {
	return &SchemaError{cause: errors.Newf(format, args...)}
}

// ValueError reports a value that cannot be encoded at a field's
// declared width, or a boolean field given an unrecognized value.
type ValueError struct{ cause error }

func (e *ValueError) Error() string { return e.cause.Error() }
func (e *ValueError) Unwrap() error { return e.cause }

func newValueError(format string, args ...any) error {
	return &ValueError{cause: errors.Newf(format, args...)}
}

// EncodingError reports a byte sequence that cannot be decoded under the
// chosen encoding with the strict error policy.
type EncodingError struct{ cause error }

func (e *EncodingError) Error() string { return e.cause.Error() }
func (e *EncodingError) Unwrap() error { return e.cause }

func newEncodingError(format string, args ...any) error {
	return &EncodingError{cause: errors.Newf(format, args...)}
}

// IOError is not a distinct type: underlying stream errors propagate
// as-is, per §7, optionally with call-site context via errors.Wrapf.
func wrapIOError(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return errors.Wrapf(cause, format, args...)
}
