// Package session keeps conversation contexts in memory for the lifetime of
// the process.
//
// Each session has its own lock. A turn acquires the session, works on a
// snapshot, and commits the snapshot back only when the turn succeeds, so
// two requests for the same session never interleave and a failed turn
// leaves no trace.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/domain"
)

type entry struct {
	mu  sync.Mutex
	ctx *domain.ConversationContext
}

// Store is a concurrency-safe map from session id to conversation context.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger.Named("session") }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getOrCreate returns the entry for id, creating it if absent. Exactly one
// caller creates a given entry.
func (s *Store) getOrCreate(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		return e, false
	}
	e := &entry{ctx: domain.NewConversationContext(id, s.now())}
	s.entries[id] = e
	return e, true
}

func (s *Store) current(id string, e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id] == e
}

// Acquire locks the session for id, creating it on first use, and returns a
// lease holding that lock. The caller must Release the lease.
func (s *Store) Acquire(id string) *Lease {
	for {
		e, created := s.getOrCreate(id)
		if created {
			s.logger.Debug("session created", zap.String("session_id", id))
		}
		e.mu.Lock()
		// A Clear between lookup and lock orphans e; start over on the fresh entry.
		if s.current(id, e) {
			return &Lease{store: s, entry: e, created: created}
		}
		e.mu.Unlock()
	}
}

// Get returns a snapshot of the context for id.
func (s *Store) Get(id string) (*domain.ConversationContext, bool) {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone(), true
}

// GetOrCreate returns a snapshot of the context for id, creating an INITIAL
// context when none exists.
func (s *Store) GetOrCreate(id string) *domain.ConversationContext {
	lease := s.Acquire(id)
	defer lease.Release()
	return lease.Snapshot()
}

// Clear removes the session. A turn already holding the session finishes on
// the removed copy and its commit is discarded.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	s.logger.Debug("session cleared", zap.String("session_id", id))
	return true
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Lease is exclusive access to one session for the duration of a turn.
type Lease struct {
	store    *Store
	entry    *entry
	created  bool
	released bool
}

// Created reports whether this lease created the session.
func (l *Lease) Created() bool { return l.created }

// Snapshot returns a deep copy of the stored context for the turn to mutate.
func (l *Lease) Snapshot() *domain.ConversationContext {
	return l.entry.ctx.Clone()
}

// Commit replaces the stored context with ctx.
func (l *Lease) Commit(ctx *domain.ConversationContext) {
	if l.released {
		return
	}
	l.entry.ctx = ctx.Clone()
}

// Release unlocks the session. Calling it more than once is a no-op.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true
	l.entry.mu.Unlock()
}
