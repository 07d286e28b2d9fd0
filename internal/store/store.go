// Package store persists the single configuration document to a JSON file.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/models"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	ErrEmptyPath       = errors.New("config file path is required")
	ErrCreateDir       = errors.New("create data directory")
	ErrInvalidDocument = errors.New("invalid configuration document")
)

// LoadErrorKind classifies why the backing file could not be used.
type LoadErrorKind int

const (
	LoadNotFound LoadErrorKind = iota + 1
	LoadUnreadable
	LoadCorrupt
	LoadInvalid
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "not_found"
	case LoadUnreadable:
		return "unreadable"
	case LoadCorrupt:
		return "corrupt"
	case LoadInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store reads and writes the configuration document at a fixed path.
// It keeps no copy of the document in memory.
type Store struct {
	path string
	dir  string
}

// New returns a Store backed by the file at path. The containing directory is
// created lazily on the first write.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config file path: %w", err)
	}
	return &Store{
		path: abs,
		dir:  filepath.Dir(abs),
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Default returns the built-in document without touching the filesystem.
func (s *Store) Default() models.Document {
	return models.DefaultDocument()
}

// Read returns the stored document or a *LoadError explaining why it could
// not be used. It never writes.
func (s *Store) Read(ctx context.Context) (models.Document, error) {
	_ = ctx

	data, err := os.ReadFile(s.path)
	if err != nil {
		kind := LoadUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = LoadNotFound
		}
		return nil, &LoadError{Kind: kind, Path: s.path, Err: err}
	}

	value, err := models.DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Kind: LoadCorrupt, Path: s.path, Err: err}
	}
	if err := models.ValidateDocument(value); err != nil {
		return nil, &LoadError{Kind: LoadInvalid, Path: s.path, Err: err}
	}

	doc, _ := models.AsDocument(value)
	return doc, nil
}

// Load returns the stored document, falling back to the default on any
// failure. A missing file is seeded with the default; a corrupt or invalid
// file is left untouched.
func (s *Store) Load(ctx context.Context) models.Document {
	logger := log.Ctx(ctx).With().Str("file", s.path).Logger()

	doc, err := s.Read(ctx)
	if err == nil {
		logger.Info().Msg("Configuration file loaded")
		return doc
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		logger.Error().Err(err).Msg("Failed to read configuration file")
		return s.Default()
	}

	switch loadErr.Kind {
	case LoadNotFound:
		logger.Info().Msg("Configuration file missing, writing defaults")
		defaults := s.Default()
		s.Save(ctx, defaults)
		return defaults
	case LoadCorrupt, LoadInvalid:
		logger.Warn().
			Err(loadErr.Err).
			Str("reason", loadErr.Kind.String()).
			Msg("Configuration file invalid, using defaults")
	default:
		logger.Error().Err(loadErr.Err).Msg("Failed to read configuration file")
	}
	return s.Default()
}

// Write validates doc and replaces the backing file with its pretty-printed
// form. Directory creation failures wrap ErrCreateDir and validation failures
// wrap ErrInvalidDocument.
func (s *Store) Write(ctx context.Context, doc models.Document) error {
	_ = ctx

	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDir, err)
	}

	if err := models.ValidateDocument(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return writeFileAtomic(s.dir, s.path, data)
}

// Save is Write with the error logged and reduced to a success flag.
func (s *Store) Save(ctx context.Context, doc models.Document) bool {
	logger := log.Ctx(ctx).With().Str("file", s.path).Logger()

	if err := s.Write(ctx, doc); err != nil {
		switch {
		case errors.Is(err, ErrInvalidDocument):
			logger.Warn().Err(err).Msg("Refusing to save invalid configuration")
		case errors.Is(err, ErrCreateDir):
			logger.Error().Err(err).Str("dir", s.dir).Msg("Failed to create data directory")
		default:
			logger.Error().Err(err).Msg("Failed to save configuration file")
		}
		return false
	}

	logger.Info().Msg("Configuration file saved")
	return true
}

// Inspect reports whether the backing file currently holds a usable document.
// Unlike Load it never seeds a missing file.
func (s *Store) Inspect(ctx context.Context) error {
	_, err := s.Read(ctx)
	return err
}

func writeFileAtomic(dir, path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
