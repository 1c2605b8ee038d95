package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

type memorySession struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemorySessionRepository - process local sessions, lost on restart.
// Like the redis store, every write refreshes the ttl and zero keeps sessions forever.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.sweep(now)

	entry := memoryEntry{session: *session}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}

	that.sessions[session.ID] = entry

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(id, that.now())
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	session := entry.session

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id, that.now()); !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// lookup - an expired entry is dropped and reported as missing.
func (that *memorySession) lookup(id string, now time.Time) (memoryEntry, bool) {
	entry, ok := that.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}

	if entry.expired(now) {
		delete(that.sessions, id)
		return memoryEntry{}, false
	}

	return entry, true
}

// sweep - drops every expired entry so abandoned sessions do not pile up.
func (that *memorySession) sweep(now time.Time) {
	for id, entry := range that.sessions {
		if entry.expired(now) {
			delete(that.sessions, id)
		}
	}
}

func (that memoryEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}
