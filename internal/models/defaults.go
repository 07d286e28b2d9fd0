package models

import (
	"fmt"
	"io"
	"sync"

	"github.com/codr1/excerpt-config/assets"
)

var defaultDocument = sync.OnceValues(parseDefaultDocument)

// ParseDefaultDocument reads the embedded fallback document and validates it.
func ParseDefaultDocument() (Document, error) {
	doc, err := defaultDocument()
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

// DefaultDocument returns a fresh copy of the built-in fallback document.
// It panics if the embedded asset is broken, which the package tests rule out.
func DefaultDocument() Document {
	doc, err := ParseDefaultDocument()
	if err != nil {
		panic(err)
	}
	return doc
}

func parseDefaultDocument() (Document, error) {
	file, err := assets.DefaultConfigFS.Open(assets.DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded default config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read embedded default config: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("invalid embedded default config: %w", err)
	}
	return doc, nil
}
