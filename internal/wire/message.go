package wire

// Fields maps schema field names to values. Decoded values are uint8 for
// Byte, int16 for Int16 and string for Text fields.
type Fields map[string]any

// Byte returns the named field as a uint8, or 0 if absent.
func (f Fields) Byte(name string) uint8 {
	v, _ := f[name].(uint8)
	return v
}

// Int16 returns the named field as an int16, or 0 if absent.
func (f Fields) Int16(name string) int16 {
	v, _ := f[name].(int16)
	return v
}

// Text returns the named field as a string, or "" if absent.
func (f Fields) Text(name string) string {
	v, _ := f[name].(string)
	return v
}

// Message is a decoded datagram: its kind together with its fields.
type Message struct {
	Kind   Kind
	Fields Fields
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	return Encode(m.Kind, m.Fields)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	kind, fields, err := Decode(data)
	if err != nil {
		return err
	}

	m.Kind = kind
	m.Fields = fields
	return nil
}
