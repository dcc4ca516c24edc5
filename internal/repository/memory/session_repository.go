package memory

import (
	"sort"
	"sync"
	"time"

	"tv-assist-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache

	// One mutex per session so concurrent requests for the same session are
	// serialized without blocking other sessions.
	locks sync.Map
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Purge expired sessions every 10 minutes.
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
	r.locks.Delete(sessionID)
}

// List returns all live sessions, most recently updated first.
func (r *SessionRepository) List() []*store.Session {
	items := r.cache.Items()
	sessions := make([]*store.Session, 0, len(items))
	for _, item := range items {
		if sess, ok := item.Object.(*store.Session); ok {
			sessions = append(sessions, sess)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions
}

// Lock acquires the per-session mutex. Callers must pair it with Unlock.
func (r *SessionRepository) Lock(sessionID string) {
	mu, _ := r.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (r *SessionRepository) Unlock(sessionID string) {
	if mu, ok := r.locks.Load(sessionID); ok {
		mu.(*sync.Mutex).Unlock()
	}
}
