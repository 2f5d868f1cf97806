package wire

import (
	"errors"
	"testing"
)

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 10 {
		t.Fatalf("expected 10 kinds, got %d", len(kinds))
	}

	for i, kind := range kinds {
		if uint16(kind) != uint16(i+1) {
			t.Fatalf("expected tag %d for %s, got %d", i+1, kind, kind)
		}
		if _, ok := SchemaOf(kind); !ok {
			t.Fatalf("no schema for %s", kind)
		}

		parsed, err := ParseKind(kind.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != kind {
			t.Fatalf("expected %s, got %s", kind, parsed)
		}
	}
}

func TestParseUnknownKind(t *testing.T) {
	if _, err := ParseKind("quit"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected error: '%v', got: %v", ErrUnknownKind, err)
	}
	if Kind(0).Valid() || Kind(11).Valid() {
		t.Fatal("out of range kinds reported as valid")
	}
}

func TestSchemaOfIsCopy(t *testing.T) {
	schema, _ := SchemaOf(KindAnswer)
	schema[0] = Field{"other", Text}

	again, _ := SchemaOf(KindAnswer)
	if again[0].Name != FieldID || again[0].Type != Int16 {
		t.Fatalf("schema table was modified: %v", again[0])
	}
}
