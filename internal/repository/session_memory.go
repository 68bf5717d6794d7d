package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

type memoryEntry struct {
	payload   []byte
	updatedAt time.Time
}

// MemorySessionRepository keeps sessions in process. Sessions are stored encoded so callers never share state with the store.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry

	ttl time.Duration
	max int
	now func() time.Time
}

// NewMemorySessionRepository - ttl <= 0 disables expiry, max <= 0 disables the size cap.
func NewMemorySessionRepository(ttl time.Duration, max int) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

func (that *MemorySessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if err := ctx.Err(); err != nil {
		return err //nolint: wrapcheck // context errors are returned as is
	}

	session.Reset()
	session.UpdatedAt = that.now()

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.sessions[session.ID]; !exists {
		that.makeRoomLocked()
	}

	that.sessions[session.ID] = &memoryEntry{payload: sessionJSON, updatedAt: session.UpdatedAt}

	return nil
}

func (that *MemorySessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint: wrapcheck // context errors are returned as is
	}

	that.mu.Lock()
	entry, err := that.lookupLocked(id)
	var payload []byte
	if err == nil {
		payload = entry.payload
	}
	that.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return decodeSession(payload)
}

// Update holds the store lock for the whole read-modify-write, so updates never interleave.
func (that *MemorySessionRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint: wrapcheck // context errors are returned as is
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	entry, err := that.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	session, err := decodeSession(entry.payload)
	if err != nil {
		return nil, err
	}

	if err = fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = that.now()

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("could not marshal session: %w", err)
	}

	entry.payload = sessionJSON
	entry.updatedAt = session.UpdatedAt

	return session, nil
}

func (that *MemorySessionRepository) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

// DeleteExpired removes every session idle for longer than the ttl and returns how many were removed.
func (that *MemorySessionRepository) DeleteExpired() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.deleteExpiredLocked()
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (that *MemorySessionRepository) RunJanitor(ctx context.Context, logger *slog.Logger, interval time.Duration) {
	log := logger.With("component", "session-janitor")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := that.DeleteExpired(); removed > 0 {
				log.Info("expired sessions removed", "count", removed)
			}
		}
	}
}

func (that *MemorySessionRepository) lookupLocked(id string) (*memoryEntry, error) {
	entry, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if that.isExpired(entry) {
		delete(that.sessions, id)
		return nil, apperror.ErrSessionNotFound
	}

	return entry, nil
}

func (that *MemorySessionRepository) isExpired(entry *memoryEntry) bool {
	return that.ttl > 0 && that.now().Sub(entry.updatedAt) > that.ttl
}

func (that *MemorySessionRepository) deleteExpiredLocked() int {
	if that.ttl <= 0 {
		return 0
	}

	removed := 0
	for id, entry := range that.sessions {
		if that.isExpired(entry) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed
}

// makeRoomLocked - frees a slot for a new session: expired ones go first, then the least recently updated.
func (that *MemorySessionRepository) makeRoomLocked() {
	if that.max <= 0 || len(that.sessions) < that.max {
		return
	}

	that.deleteExpiredLocked()

	for len(that.sessions) >= that.max {
		var (
			oldestID string
			oldest   time.Time
			found    bool
		)
		for id, entry := range that.sessions {
			if !found || entry.updatedAt.Before(oldest) {
				oldestID, oldest, found = id, entry.updatedAt, true
			}
		}
		delete(that.sessions, oldestID)
	}
}
