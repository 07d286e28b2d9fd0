package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	FieldThemes     = "themes"
	FieldFonts      = "fonts"
	FieldFontColors = "fontColors"
)

const documentIndent = "  "

// Document is the persisted configuration document. It is kept as a generic
// JSON object so fields the service does not know about survive a round trip.
type Document map[string]any

// DecodeJSON reads exactly one JSON value from r. Numbers are decoded as
// json.Number so they are written back unchanged.
func DecodeJSON(r io.Reader) (any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return value, nil
}

// ParseDocument decodes and validates a serialized document.
func ParseDocument(data []byte) (Document, error) {
	value, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := ValidateDocument(value); err != nil {
		return nil, err
	}
	doc, _ := AsDocument(value)
	return doc, nil
}

// AsDocument returns value as a Document when it is a non-null JSON object.
func AsDocument(value any) (Document, bool) {
	switch v := value.(type) {
	case Document:
		return v, v != nil
	case map[string]any:
		return Document(v), v != nil
	default:
		return nil, false
	}
}

// MarshalIndent serializes the document with two-space indentation and a
// trailing newline.
func (d Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", documentIndent)
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneValue(map[string]any(d)).(map[string]any))
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return cloneValue(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
