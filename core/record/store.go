package record

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core"
)

// DefaultStorageKey is the key the whole store is persisted under.
const DefaultStorageKey = "autom8-store"

var (
	// errors
	ErrNotFound     = errors.New("record not found")
	ErrBlobNotFound = errors.New("blob not found")
)

// Backend is a key-value blob store. Get returns ErrBlobNotFound when key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is the single source of truth for every entity collection.
//
// Operations never fail: lookups that miss are no-ops, and the full state is
// written to the backend after every mutation (or once per Batch). Write failures
// are logged; the in-memory state is kept.
type Store struct {
	mu      sync.RWMutex
	state   Snapshot
	backend Backend
	key     string
	logger  core.Logger

	batchDepth int
	dirty      bool
}

// NewStore returns an empty store persisted to backend under key.
// It panics if any dependency is missing.
func NewStore(backend Backend, key string, logger core.Logger) *Store {
	vala.BeginValidation().Validate(
		vala.IsNotNil(backend, "backend"),
		vala.StringNotEmpty(key, "key"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Store{
		state:   emptySnapshot(),
		backend: backend,
		key:     key,
		logger:  logger,
	}
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Courses:       []Course{},
		Settings:      DefaultSettings(),
		Students:      []Student{},
		Attendance:    []AttendanceRecord{},
		GradingScales: []GradingScale{},
		StudentGrades: []StudentGrade{},
	}
}

// normalized replaces missing collections with empty ones.
func (s Snapshot) normalized() Snapshot {
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	if s.Students == nil {
		s.Students = []Student{}
	}
	if s.Attendance == nil {
		s.Attendance = []AttendanceRecord{}
	}
	if s.GradingScales == nil {
		s.GradingScales = []GradingScale{}
	}
	if s.StudentGrades == nil {
		s.StudentGrades = []StudentGrade{}
	}
	return s
}

// DecodeSnapshot parses a persisted or exported snapshot.
// Missing top-level keys get their defaults; records are not validated.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	snap := Snapshot{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap.normalized(), nil
}

// changed must be called with the write lock held, after every mutation.
func (s *Store) changed() {
	if s.batchDepth > 0 {
		s.dirty = true
		return
	}
	if err := s.writeLocked(context.Background()); err != nil {
		s.logger.Error("Failed to save store", err)
	}
}

func (s *Store) writeLocked(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	s.dirty = false
	if err = s.backend.Set(ctx, s.key, data); err != nil {
		return errors.Wrapf(err, "writing %q", s.key)
	}
	return nil
}

// Batch runs fn and persists the store once, after fn returns, if anything changed.
// Batches nest; only the outermost one writes.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.batchDepth--
		if s.batchDepth == 0 && s.dirty {
			if err := s.writeLocked(context.Background()); err != nil {
				s.logger.Error("Failed to save store", err)
			}
		}
	}()
	fn()
}

// LoadFromStorage replaces the in-memory state with the persisted snapshot.
// An absent snapshot leaves the defaults; an unreadable one is logged and ignored.
func (s *Store) LoadFromStorage(ctx context.Context) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Cause(err) != ErrBlobNotFound {
			s.logger.Error("Failed to load store from storage", err)
		}
		return
	}
	if len(data) == 0 {
		return
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Error("Failed to load store from storage", errors.Wrap(err, "decoding snapshot"))
		return
	}

	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
}

// SaveToStorage writes the full snapshot, overwriting the previous one.
func (s *Store) SaveToStorage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Reset drops every record and restores the default settings.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = emptySnapshot()
	s.changed()
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Courses:       len(s.state.Courses),
		Students:      len(s.state.Students),
		Attendance:    len(s.state.Attendance),
		GradingScales: len(s.state.GradingScales),
		StudentGrades: len(s.state.StudentGrades),
	}
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

func (s *Store) UpdateSettings(p SettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.apply(&s.state.Settings)
	s.changed()
}
