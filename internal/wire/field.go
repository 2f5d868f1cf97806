package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// FieldType is the closed set of wire field encodings: Byte, Int16 and Text.
// It can't be implemented outside of this package.
type FieldType interface {
	fmt.Stringer

	appendValue(dst []byte, v any) ([]byte, error)
	readValue(data []byte) (v any, n int, err error)
}

var (
	// Byte is a single unsigned byte, decoded as uint8.
	Byte FieldType = byteField{}
	// Int16 is a big-endian signed 16-bit integer, decoded as int16.
	Int16 FieldType = int16Field{}
	// Text is a big-endian byte count followed by UTF-16BE code units,
	// decoded as string.
	Text FieldType = textField{}
)

// MaxTextBytes is the largest encoded text body. The count prefix is read
// as a signed 16-bit integer by peers.
const MaxTextBytes = math.MaxInt16

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

type byteField struct{}

func (byteField) String() string { return "byte" }

func (byteField) appendValue(dst []byte, v any) ([]byte, error) {
	switch v := v.(type) {
	case uint8:
		return append(dst, v), nil
	case int:
		if v < 0 || v > math.MaxUint8 {
			return nil, fmt.Errorf("%w: %d does not fit in a byte", ErrValueRange, v)
		}
		return append(dst, uint8(v)), nil
	default:
		return nil, fmt.Errorf("%w: byte field can't hold %T", ErrFieldType, v)
	}
}

func (byteField) readValue(data []byte) (any, int, error) {
	if len(data) < 1 {
		return nil, 0, ErrShortBuffer
	}
	return data[0], 1, nil
}

type int16Field struct{}

func (int16Field) String() string { return "int16" }

func (int16Field) appendValue(dst []byte, v any) ([]byte, error) {
	var n int16
	switch v := v.(type) {
	case int16:
		n = v
	case int:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return nil, fmt.Errorf("%w: %d does not fit in an int16", ErrValueRange, v)
		}
		n = int16(v)
	default:
		return nil, fmt.Errorf("%w: int16 field can't hold %T", ErrFieldType, v)
	}
	return binary.BigEndian.AppendUint16(dst, uint16(n)), nil
}

func (int16Field) readValue(data []byte) (any, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrShortBuffer
	}
	return int16(binary.BigEndian.Uint16(data)), 2, nil
}

type textField struct{}

func (textField) String() string { return "text" }

func (textField) appendValue(dst []byte, v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: text field can't hold %T", ErrFieldType, v)
	}
	// the encoder would silently substitute U+FFFD
	if !utf8.ValidString(s) {
		return nil, ErrInvalidText
	}

	body, err := utf16be.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxTextBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTextTooLong, len(body))
	}

	dst = binary.BigEndian.AppendUint16(dst, uint16(len(body)))
	return append(dst, body...), nil
}

func (textField) readValue(data []byte) (any, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrShortBuffer
	}

	size := int(binary.BigEndian.Uint16(data))
	switch {
	case size > MaxTextBytes:
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrTextTooLong, size)
	case size%2 != 0:
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrOddTextLength, size)
	case len(data)-2 < size:
		return nil, 0, ErrShortBuffer
	}

	s, err := utf16be.NewDecoder().Bytes(data[2 : 2+size])
	if err != nil {
		return nil, 0, err
	}
	return string(s), 2 + size, nil
}
