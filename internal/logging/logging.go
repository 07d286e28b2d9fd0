// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/config"
)

// Options is the subset of config.Config the logger cares about.
type Options struct {
	Level             string
	Format            string
	Development       bool
	EnableFileLogging bool
	Dir               string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Level:             cfg.Log.Level,
		Format:            cfg.Log.Format,
		Development:       cfg.IsDevelopment(),
		EnableFileLogging: cfg.FileLoggingEnabled(),
		Dir:               cfg.Log.Dir,
	}
}

// New builds a logger writing to out and, when enabled, to one file per level
// under opts.Dir. The returned closer releases the log files.
func New(opts Options, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("unsupported log level: %q", opts.Level)
	}

	var console io.Writer = out
	if opts.Format == config.LogFormatSimple {
		console = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !opts.Development,
			TimeFormat: time.RFC3339,
		}
	}

	var closer io.Closer = nopCloser{}
	writer := zerolog.MultiLevelWriter(console)
	if opts.EnableFileLogging {
		files, err := NewLevelFileWriter(opts.Dir)
		if err != nil {
			fmt.Fprintf(out, "file logging disabled: %v\n", err)
		} else {
			writer = zerolog.MultiLevelWriter(console, files)
			closer = files
		}
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// Setup installs the logger as the global and context fallback logger.
func Setup(opts Options) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger, closer, err := New(opts, os.Stdout)
	if err != nil {
		return nil, err
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return closer, nil
}

// LevelFileWriter appends every entry to <dir>/<level>.log.
type LevelFileWriter struct {
	dir   string
	mu    sync.Mutex
	files map[zerolog.Level]*os.File
}

func NewLevelFileWriter(dir string) (*LevelFileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &LevelFileWriter{
		dir:   dir,
		files: make(map[zerolog.Level]*os.File),
	}, nil
}

// Write is used for entries without a level.
func (w *LevelFileWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *LevelFileWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A broken log file must not fail the console write.
	if file, err := w.fileFor(level); err == nil {
		_, _ = file.Write(p)
	}
	return len(p), nil
}

func (w *LevelFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	for level, file := range w.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(w.files, level)
	}
	return firstErr
}

func (w *LevelFileWriter) fileFor(level zerolog.Level) (*os.File, error) {
	if file, ok := w.files[level]; ok {
		return file, nil
	}
	name := level.String()
	if name == "" {
		name = "general"
	}
	file, err := os.OpenFile(filepath.Join(w.dir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w.files[level] = file
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
