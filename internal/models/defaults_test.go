package models

import (
	"reflect"
	"testing"
)

func TestParseDefaultDocument(t *testing.T) {
	doc, err := ParseDefaultDocument()
	if err != nil {
		t.Fatalf("ParseDefaultDocument() error = %v", err)
	}
	if err := ValidateDocument(doc); err != nil {
		t.Fatalf("default document failed validation: %v", err)
	}

	counts := map[string]int{
		FieldThemes:     10,
		FieldFonts:      4,
		FieldFontColors: 8,
	}
	for field, want := range counts {
		items, ok := doc[field].([]any)
		if !ok {
			t.Fatalf("%s missing from default document", field)
		}
		if len(items) != want {
			t.Fatalf("%s count = %d, want %d", field, len(items), want)
		}
	}
}

func TestDefaultDocument_ReturnsFreshCopy(t *testing.T) {
	first := DefaultDocument()
	first[FieldThemes] = "mutated"

	second := DefaultDocument()
	if _, ok := second[FieldThemes].([]any); !ok {
		t.Fatalf("DefaultDocument() returned shared state")
	}
	if reflect.DeepEqual(first, second) {
		t.Fatalf("expected copies to be independent")
	}
}
