// Package wire implements the fixed-schema binary format exchanged with the
// game server. Every message starts with a 2-byte big-endian kind tag
// followed by the fields of the kind's schema, in order, with no framing,
// terminator or checksum.
package wire

import (
	"encoding/binary"
	"fmt"
)

// TagSize is the length of the kind tag that prefixes every message.
const TagSize = 2

// Encode renders a message of the given kind. fields must contain exactly the
// fields declared by the kind's schema.
func Encode(kind Kind, fields Fields) ([]byte, error) {
	schema, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("wire: encode: %w: %d", ErrUnknownKind, uint16(kind))
	}

	for name := range fields {
		if !schema.has(name) {
			return nil, &FieldError{Kind: kind, Field: name, Err: ErrUnexpectedField}
		}
	}

	buf := binary.BigEndian.AppendUint16(make([]byte, 0, 64), uint16(kind))
	for _, field := range schema {
		v, ok := fields[field.Name]
		if !ok {
			return nil, &FieldError{Kind: kind, Field: field.Name, Err: ErrMissingField}
		}

		var err error
		if buf, err = field.Type.appendValue(buf, v); err != nil {
			return nil, &FieldError{Kind: kind, Field: field.Name, Err: err}
		}
	}

	return buf, nil
}

// Decode parses a datagram. An unrecognized tag yields ErrUnknownKind with a
// zero kind and nil fields. The datagram must be consumed exactly: a short
// buffer or leftover bytes after the last field are errors.
func Decode(data []byte) (Kind, Fields, error) {
	if len(data) < TagSize {
		return 0, nil, fmt.Errorf("wire: decode tag: %w", ErrShortBuffer)
	}

	kind := Kind(binary.BigEndian.Uint16(data))
	schema, ok := schemas[kind]
	if !ok {
		return 0, nil, fmt.Errorf("wire: decode: %w: %d", ErrUnknownKind, uint16(kind))
	}

	fields := make(Fields, len(schema))
	off := TagSize
	for _, field := range schema {
		v, n, err := field.Type.readValue(data[off:])
		if err != nil {
			return 0, nil, &FieldError{Kind: kind, Field: field.Name, Err: err}
		}
		fields[field.Name] = v
		off += n
	}

	if off != len(data) {
		return 0, nil, fmt.Errorf("wire: decode %s: %w: %d", kind, ErrTrailingBytes, len(data)-off)
	}

	return kind, fields, nil
}
