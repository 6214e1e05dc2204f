package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/ini.v1"

	"github.com/hestiakit/hestia/observability/log"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrKeyNotFound     = errors.New("key not found")
)

// LoadStatus records the outcome of the most recent load attempt.
type LoadStatus uint8

const (
	StatusNotLoaded LoadStatus = iota
	StatusLoaded
	StatusFileNotFound
	StatusReadError
)

func (s LoadStatus) String() string {
	switch s {
	case StatusNotLoaded:
		return "not-loaded"
	case StatusLoaded:
		return "loaded"
	case StatusFileNotFound:
		return "file-not-found"
	case StatusReadError:
		return "read-error"
	default:
		return "unknown"
	}
}

// Value constrains the scalar types the store reads and writes.
type Value interface {
	bool | int | float64 | string
}

// Store is a two-level configuration store backed by an INI file: named
// sections holding key=value scalars. Construction never fails; a missing or
// unreadable file leaves an empty store whose Status and Err describe what
// happened, so hosts can fall back to defaults and still persist them later.
//
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	file     *ini.File
	status   LoadStatus
	loadErr  error
	lastHash uint64
	logger   log.Log
}

type Option func(*Store)

func WithLogger(logger log.Log) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the file at path. The returned store is never nil; check
// Status when the file must already exist.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		file:   ini.Empty(),
		status: StatusNotLoaded,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	s.load()
	s.mu.Unlock()
	return s
}

// load reads the backing file. Caller holds s.mu.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.file = ini.Empty()
		s.loadErr = err
		if errors.Is(err, fs.ErrNotExist) {
			s.status = StatusFileNotFound
		} else {
			s.status = StatusReadError
		}
		s.logger.Warn("config not loaded",
			log.String("path", s.path),
			log.String("status", s.status.String()),
			log.Error(err),
		)
		return
	}

	file, err := ini.Load(data)
	if err != nil {
		s.file = ini.Empty()
		s.status = StatusReadError
		s.loadErr = err
		s.logger.Warn("config not parsed",
			log.String("path", s.path),
			log.Error(err),
		)
		return
	}

	s.file = file
	s.status = StatusLoaded
	s.loadErr = nil
	// Hash our own serialization, not the raw bytes: the writer normalizes
	// spacing, so only serialized forms compare reliably.
	if buf, err := s.serialize(); err == nil {
		s.lastHash = xxhash.Sum64(buf.Bytes())
	} else {
		s.lastHash = 0
	}
	s.logger.Debug("config loaded",
		log.String("path", s.path),
		log.Int("sections", len(file.SectionStrings())),
	)
}

// serialize renders the in-memory state. Caller holds s.mu.
func (s *Store) serialize() (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize config: %w", err)
	}
	return &buf, nil
}

func (s *Store) Path() string { return s.path }

// Status reports how the last load attempt went.
func (s *Store) Status() LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error behind a non-Loaded status, nil otherwise.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Reload discards the in-memory state, unsaved mutations included, and
// re-reads the backing file. The returned error is the new load error, if
// any.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.loadErr
}

// Save serializes the store to its backing file. The write is skipped when
// the serialized content matches what was last read or written, so an
// unmodified store never touches the disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := s.serialize()
	if err != nil {
		return err
	}
	sum := xxhash.Sum64(buf.Bytes())
	if sum == s.lastHash {
		return nil
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	s.lastHash = sum
	s.logger.Debug("config saved", log.String("path", s.path))
	return nil
}

// Close persists outstanding changes. Stores are closed on the way out of a
// session; there is nothing else to release.
func (s *Store) Close() error {
	return s.Save()
}

// Has reports whether the section carries the key.
func (s *Store) Has(section, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, err := s.file.GetSection(section)
	return err == nil && sec.HasKey(key)
}

// Sections lists the named sections in file order.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.file.Sections()))
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		names = append(names, sec.Name())
	}
	return names
}

// Keys lists the keys of one section in file order.
func (s *Store) Keys(section string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// Get reads section.key as a T. Missing sections and keys are sentinel
// errors; a value that does not parse as T wraps the conversion failure.
// Bool parsing follows strconv.ParseBool, which covers the 1/True/true
// spellings.
func Get[T Value](s *Store, section, key string) (T, error) {
	var zero T
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, err := s.file.GetSection(section)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", section, ErrSectionNotFound)
	}
	if !sec.HasKey(key) {
		return zero, fmt.Errorf("%s.%s: %w", section, key, ErrKeyNotFound)
	}
	return parseValue[T](section, key, sec.Key(key).String())
}

// GetOr reads section.key as a T, falling back to def when the key is
// absent or malformed.
func GetOr[T Value](s *Store, section, key string, def T) T {
	v, err := Get[T](s, section, key)
	if err != nil {
		return def
	}
	return v
}

// Set writes section.key, creating both levels as needed. The change lives
// in memory until Save or Close.
func Set[T Value](s *Store, section, key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.Section(section).Key(key).SetValue(formatValue(v))
}

// Delete removes a key. Removing the last key keeps the empty section; Save
// still writes its header, which is harmless.
func (s *Store) Delete(section, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec, err := s.file.GetSection(section); err == nil {
		sec.DeleteKey(key)
	}
}

func parseValue[T Value](section, key, raw string) (T, error) {
	var zero T
	var out any
	var err error
	switch any(zero).(type) {
	case bool:
		out, err = strconv.ParseBool(strings.TrimSpace(raw))
	case int:
		out, err = strconv.Atoi(strings.TrimSpace(raw))
	case float64:
		out, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case string:
		out = raw
	}
	if err != nil {
		return zero, fmt.Errorf("%s.%s: %w", section, key, err)
	}
	return out.(T), nil
}

func formatValue[T Value](v T) string {
	switch val := any(v).(type) {
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
