package wire

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind     = errors.New("unknown message kind")
	ErrShortBuffer     = errors.New("buffer too short")
	ErrTrailingBytes   = errors.New("trailing bytes after last field")
	ErrMissingField    = errors.New("missing field")
	ErrUnexpectedField = errors.New("field not in schema")
	ErrFieldType       = errors.New("wrong value type for field")
	ErrValueRange      = errors.New("value out of range")
	ErrTextTooLong     = errors.New("text too long")
	ErrOddTextLength   = errors.New("odd text byte count")
	ErrInvalidText     = errors.New("text is not valid UTF-8")
)

// FieldError reports a failure to encode or decode a single field of a
// message.
type FieldError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("wire: %s.%s: %v", e.Kind, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
