package wire

// Field names shared by the message schemas.
const (
	FieldANum       = "aNum"
	FieldLastName   = "lastName"
	FieldFirstName  = "firstName"
	FieldAlias      = "alias"
	FieldID         = "id"
	FieldHint       = "hint"
	FieldDefinition = "definition"
	FieldGuess      = "guess"
	FieldResult     = "result"
	FieldScore      = "score"
	FieldErrorText  = "error"
)

// Field is a single entry of a message schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the ordered list of fields for a kind. The order is both the
// encoding and the decoding order; field names never go on the wire.
type Schema []Field

var schemas = map[Kind]Schema{
	KindStartGame: {
		{FieldANum, Text},
		{FieldLastName, Text},
		{FieldFirstName, Text},
		{FieldAlias, Text},
	},
	KindGameDef: {
		{FieldID, Int16},
		{FieldHint, Text},
		{FieldDefinition, Text},
	},
	KindGuess: {
		{FieldID, Int16},
		{FieldGuess, Text},
	},
	KindAnswer: {
		{FieldID, Int16},
		{FieldResult, Byte},
		{FieldScore, Int16},
		{FieldHint, Text},
	},
	KindGetHint:   {{FieldID, Int16}},
	KindHint:      {{FieldID, Int16}, {FieldHint, Text}},
	KindExit:      {{FieldID, Int16}},
	KindAck:       {{FieldID, Int16}},
	KindError:     {{FieldID, Int16}, {FieldErrorText, Text}},
	KindHeartbeat: {{FieldID, Int16}},
}

// SchemaOf returns a copy of the schema for kind.
func SchemaOf(kind Kind) (Schema, bool) {
	schema, ok := schemas[kind]
	if !ok {
		return nil, false
	}
	return append(Schema(nil), schema...), true
}

func (s Schema) has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}
