package store

import "time"

// sweepLoop periodically deletes expired entries so that keys written
// once and never read again do not hold memory until eviction pressure
// reaches them.
func (s *Store) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.deleteExpiredLocked(nowMillis())
			s.mu.Unlock()
		}
	}
}

func (s *Store) deleteExpiredLocked(now int64) {
	for _, elem := range s.items {
		if elem.Value.expireAt <= now {
			s.removeElementLocked(elem)
		}
	}
}
