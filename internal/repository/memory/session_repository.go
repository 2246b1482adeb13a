package memory

import (
	"time"

	"symptom-checker-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the device's session, creating it if needed.
// Every access refreshes the expiration.
func (r *SessionRepository) GetOrCreate(deviceID string) *store.Session {
	if s, found := r.Get(deviceID); found {
		return s
	}
	s := store.NewSession(deviceID)
	if err := r.cache.Add(deviceID, s, cache.DefaultExpiration); err != nil {
		// lost a race with a concurrent create
		if existing, found := r.Get(deviceID); found {
			return existing
		}
		r.cache.Set(deviceID, s, cache.DefaultExpiration)
	}
	return s
}

func (r *SessionRepository) Get(deviceID string) (*store.Session, bool) {
	if x, found := r.cache.Get(deviceID); found {
		s := x.(*store.Session)
		r.cache.Set(deviceID, s, cache.DefaultExpiration)
		return s, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(deviceID string) {
	r.cache.Delete(deviceID)
}
