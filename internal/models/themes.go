package models

import (
	"fmt"
)

// FieldError describes the first shape violation found in a document.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type collectionRule struct {
	field string
	check func(item map[string]any) *FieldError
}

// Order matters only for which violation gets reported first.
var collectionRules = []collectionRule{
	{field: FieldThemes, check: checkTheme},
	{field: FieldFonts, check: checkNamedValue},
	{field: FieldFontColors, check: checkNamedValue},
}

// ValidateDocument checks the structural shape of a candidate document.
// All three collections are optional; when present each must be an array
// whose elements carry their required fields. Extra fields are ignored.
func ValidateDocument(candidate any) error {
	doc, ok := AsDocument(candidate)
	if !ok {
		return &FieldError{Field: "document", Reason: "must be a JSON object"}
	}

	for _, rule := range collectionRules {
		raw, present := doc[rule.field]
		if !present {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			return &FieldError{Field: rule.field, Reason: "must be an array"}
		}
		for i, item := range items {
			entry, ok := item.(map[string]any)
			if !ok || entry == nil {
				return &FieldError{Field: indexedField(rule.field, i), Reason: "must be an object"}
			}
			if err := rule.check(entry); err != nil {
				err.Field = indexedField(rule.field, i) + "." + err.Field
				return err
			}
		}
	}

	return nil
}

// IsValidDocument reports whether candidate passes ValidateDocument.
func IsValidDocument(candidate any) bool {
	return ValidateDocument(candidate) == nil
}

// A theme needs an id plus a color or a background; border and friends pass through.
func checkTheme(item map[string]any) *FieldError {
	if !isNonEmptyString(item["id"]) {
		return &FieldError{Field: "id", Reason: "must be a non-empty string"}
	}
	_, hasColor := item["color"].(string)
	_, hasBackground := item["background"].(string)
	if !hasColor && !hasBackground {
		return &FieldError{Field: "color", Reason: "or background must be a string"}
	}
	return nil
}

// Fonts and font colors share the same id/value/name requirement.
func checkNamedValue(item map[string]any) *FieldError {
	for _, field := range []string{"id", "value", "name"} {
		if !isNonEmptyString(item[field]) {
			return &FieldError{Field: field, Reason: "must be a non-empty string"}
		}
	}
	return nil
}

func isNonEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && s != ""
}

func indexedField(field string, index int) string {
	return fmt.Sprintf("%s[%d]", field, index)
}
