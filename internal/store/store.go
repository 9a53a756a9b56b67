package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shirasu/kioku/internal/lru"
)

// maxTTLSeconds caps every entry lifetime at 30 days. A requested TTL
// that is non-positive or above the cap is clamped to the cap.
const maxTTLSeconds = 30 * 24 * 60 * 60

var ErrInvalidCapacity = errors.New("capacity must be positive")

var nowMillis = func() int64 { return time.Now().UnixMilli() }

type entry struct {
	key   string
	value string

	// expireAt is Unix milliseconds. Entries always expire.
	expireAt int64
}

// Entry is one key's state as reported by Dump.
type Entry struct {
	Value string `json:"value"`
	TTL   int64  `json:"ttl"`
}

type Config struct {
	// MaxItems <= 0 falls back to 10000.
	MaxItems int

	// SweepInterval <= 0 disables the background sweep. Lazy expiry on
	// Get and Dump still applies.
	SweepInterval time.Duration
}

// Store is a capacity-bounded key-value store with per-key TTL and LRU
// eviction. The recency list front holds the most recently used key.
type Store struct {
	mu sync.Mutex

	maxItems int
	items    map[string]*lru.Element[*entry]
	recency  *lru.List[*entry]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func New(cfg Config) *Store {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 10000
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		maxItems: cfg.MaxItems,
		items:    make(map[string]*lru.Element[*entry]),
		recency:  lru.New[*entry](),
		ctx:      ctx,
		cancel:   cancel,
	}

	if cfg.SweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(cfg.SweepInterval)
	}

	return s
}

// Close stops the background sweep. Safe to call multiple times.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Set inserts or overwrites key, marks it most recently used and evicts
// from the least recently used end while the store is over capacity.
func (s *Store) Set(key, value string, ttlSeconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expireAt := nowMillis() + clampTTL(ttlSeconds)*1000

	if elem, ok := s.items[key]; ok {
		e := elem.Value
		e.value = value
		e.expireAt = expireAt
		s.recency.MoveToFront(elem)
	} else {
		elem := s.recency.PushFront(&entry{key: key, value: value, expireAt: expireAt})
		s.items[key] = elem
	}

	s.evictLocked()
}

// Get returns the live value for key and marks it most recently used.
// An expired entry is deleted and reported as a miss.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return "", false
	}
	e := elem.Value
	if e.expireAt <= nowMillis() {
		s.removeElementLocked(elem)
		return "", false
	}
	s.recency.MoveToFront(elem)
	return e.value, true
}

// Dump returns every live entry with its remaining TTL in seconds.
// Expired entries found during the scan are deleted and excluded.
// The scan does not count as an access: recency order is unchanged.
func (s *Store) Dump() map[string]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowMillis()
	out := make(map[string]Entry, len(s.items))
	for key, elem := range s.items {
		e := elem.Value
		if e.expireAt <= now {
			s.removeElementLocked(elem)
			continue
		}
		out[key] = Entry{
			Value: e.value,
			TTL:   (e.expireAt - now + 500) / 1000,
		}
	}
	return out
}

// Resize changes the capacity, evicting least recently used entries when
// the store currently holds more than newCapacity.
func (s *Store) Resize(newCapacity int) error {
	if newCapacity <= 0 {
		return ErrInvalidCapacity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxItems = newCapacity
	s.evictLocked()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) evictLocked() {
	for len(s.items) > s.maxItems {
		victim := s.recency.Back()
		if victim == nil {
			return
		}
		s.removeElementLocked(victim)
	}
}

func (s *Store) removeElementLocked(elem *lru.Element[*entry]) {
	delete(s.items, elem.Value.key)
	s.recency.Remove(elem)
}

func clampTTL(ttlSeconds int64) int64 {
	if ttlSeconds <= 0 || ttlSeconds > maxTTLSeconds {
		return maxTTLSeconds
	}
	return ttlSeconds
}
