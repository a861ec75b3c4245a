package domain

import "fmt"

// MalformedRecordError reports a data row whose typed fields could not be
// resolved: an unparsable BGN_DATE, a non-numeric count or amount, or a
// negative value where the data dictionary requires a non-negative one. The
// pipeline decides what to do with it (skip and count by default, abort in
// strict mode); the error itself only identifies the offending row and field.
type MalformedRecordError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s=%q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
