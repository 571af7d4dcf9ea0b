// Package layout persists the floor layout document. Mutations are
// serialised in process by a mutex and across processes by a lock file;
// every write replaces the file atomically so readers never need a lock.
package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"factoryfloor/internal/domain"
)

var (
	ErrMissing = errors.New("layout file does not exist")
	ErrCorrupt = errors.New("layout file is corrupt")
)

// Mode decides how Mutate treats the current file content.
type Mode int

const (
	// CreateIfMissing starts from an empty document when the file is
	// missing or cannot be parsed.
	CreateIfMissing Mode = iota
	// RequireValid starts from an empty document when the file is missing
	// but fails with ErrCorrupt when it cannot be parsed.
	RequireValid
)

const lockRetryDelay = 20 * time.Millisecond

// Event describes a committed layout change.
type Event struct {
	Op      string
	Project string
	Actor   string
}

type Store struct {
	path        string
	lockTimeout time.Duration
	log         *zap.Logger

	mu   sync.Mutex
	file *flock.Flock

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

func NewStore(path string, lockTimeout time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		path:        path,
		lockTimeout: lockTimeout,
		log:         log,
		file:        flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string { return s.path }

// OnChange registers fn to be called after every successful mutation.
func (s *Store) OnChange(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Read parses the current file. Each call returns a fresh document the
// caller may modify freely.
func (s *Store) Read(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("read layout: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

// EnsureExists writes an empty document when the file is absent.
func (s *Store) EnsureExists(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.withLock(ctx, func() error {
		if _, err := os.Stat(s.path); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat layout: %w", err)
		}
		s.log.Warn("layout file not found, creating an empty one", zap.String("path", s.path))
		return s.write(NewDocument())
	})
}

// Mutate loads the document, applies fn to it and writes the result. When
// fn fails nothing is written and its error is returned unchanged.
func (s *Store) Mutate(ctx context.Context, mode Mode, ev Event, fn func(*Document) error) error {
	err := s.withLock(ctx, func() error {
		doc, err := s.load(ctx, mode)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.write(doc)
	})
	if err != nil {
		return err
	}
	s.notify(ev)
	return nil
}

func (s *Store) load(ctx context.Context, mode Mode) (*Document, error) {
	doc, err := s.Read(ctx)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, ErrMissing):
		return NewDocument(), nil
	case errors.Is(err, ErrCorrupt) && mode == CreateIfMissing:
		s.log.Warn("layout file is corrupt, starting from an empty document",
			zap.String("path", s.path), zap.Error(err))
		return NewDocument(), nil
	default:
		return nil, err
	}
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	locked, err := s.file.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		return fmt.Errorf("acquire layout lock: %w", domain.ErrStoreUnavailable)
	}
	defer func() {
		if err := s.file.Unlock(); err != nil {
			s.log.Warn("release layout lock", zap.Error(err))
		}
	}()

	return fn()
}

// write replaces the file through a temp file in the same directory.
func (s *Store) write(doc *Document) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp layout: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp layout: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace layout: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) notify(ev Event) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, fn := range s.listeners {
		fn(ev)
	}
}
