// Package favorites persists the user's favorite jokes as a single JSON
// document.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/five82/jokefinder/internal/joke"
)

// FileName is the label of the favorites document inside the data directory.
const FileName = "FavoriteJokes"

// Failure classes carried by StoreError.
var (
	ErrReadFailure  = errors.New("favorites read failure")
	ErrWriteFailure = errors.New("favorites write failure")
)

// StoreError records which step of a load or save failed.
type StoreError struct {
	Op   string // read, parse, mkdir, marshal, write, rename
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s favorites %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is maps the operation onto ErrReadFailure or ErrWriteFailure.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrReadFailure:
		return e.Op == "read" || e.Op == "parse"
	case ErrWriteFailure:
		return e.Op != "read" && e.Op != "parse"
	}
	return false
}

// Store reads and rewrites the favorites file. Every save replaces the whole
// collection.
type Store struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithFs swaps the file system, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l.With().Str("component", "favorites").Logger()
	}
}

// New returns a Store backed by the file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		fs:     afero.NewOsFs(),
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the favorites file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted favorites. A missing, unreadable or corrupt file
// yields an empty collection; the cause is only logged.
func (s *Store) Load() []joke.Joke {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Str("path", s.path).Msg("no favorites file yet")
			return []joke.Joke{}
		}
		s.logger.Warn().Err(&StoreError{Op: "read", Path: s.path, Err: err}).Msg("favorites unreadable, starting empty")
		return []joke.Joke{}
	}

	var jokes []joke.Joke
	if err := json.Unmarshal(data, &jokes); err != nil {
		s.logger.Warn().Err(&StoreError{Op: "parse", Path: s.path, Err: err}).Msg("favorites corrupt, starting empty")
		return []joke.Joke{}
	}
	if jokes == nil {
		jokes = []joke.Joke{}
	}
	s.logger.Debug().Int("favorites", len(jokes)).Msg("favorites loaded")
	return jokes
}

// Save atomically replaces the file with jokes. The document is written to a
// temporary file in the same directory and renamed over the target, so a
// reader sees either the old or the new collection.
func (s *Store) Save(jokes []joke.Joke) error {
	if jokes == nil {
		jokes = []joke.Joke{}
	}
	data, err := json.MarshalIndent(jokes, "", "  ")
	if err != nil {
		return &StoreError{Op: "marshal", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return &StoreError{Op: "mkdir", Path: s.path, Err: err}
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := s.fs.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		cleanup()
		return &StoreError{Op: "rename", Path: s.path, Err: err}
	}

	s.logger.Debug().Int("favorites", len(jokes)).Msg("favorites saved")
	return nil
}
