package hawk

import (
	"sync"
	"time"
)

// NonceStore remembers nonces for replay detection.
type NonceStore interface {
	// Seen records the (id, nonce, ts) triple and reports whether it had
	// already been recorded.
	Seen(id, nonce string, ts int64) bool
}

// MemoryNonceStore keeps nonces in memory for ttl, then forgets them.
type MemoryNonceStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]time.Time
}

// NewMemoryNonceStore creates a store. Entries older than ttl are pruned
// lazily on each call.
func NewMemoryNonceStore(ttl time.Duration) *MemoryNonceStore {
	return &MemoryNonceStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryNonceStore) Seen(id, nonce string, ts int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, at := range s.entries {
		if now.Sub(at) > s.ttl {
			delete(s.entries, k)
		}
	}

	key := id + "\x00" + nonce + "\x00" + time.Unix(ts, 0).UTC().Format(time.RFC3339)
	if _, ok := s.entries[key]; ok {
		return true
	}
	s.entries[key] = now
	return false
}

// Len returns the number of remembered nonces.
func (s *MemoryNonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
