package server

import (
	"net"
	"sync"

	"github.com/shirasu/kioku/internal/lru"
)

type regEntry struct {
	id   uint64
	conn net.Conn
}

// registry bounds the number of live client connections. When a new
// connection pushes the registry over capacity, the least recently
// registered connection is forcibly closed. The evicted client sees an
// unexpected disconnect; that is backpressure, not an error.
type registry struct {
	mu sync.Mutex

	maxConns int
	nextID   uint64
	conns    map[uint64]*lru.Element[*regEntry]
	recency  *lru.List[*regEntry]
}

func newRegistry(maxConns int) *registry {
	if maxConns <= 0 {
		maxConns = 1000
	}
	return &registry{
		maxConns: maxConns,
		conns:    make(map[uint64]*lru.Element[*regEntry]),
		recency:  lru.New[*regEntry](),
	}
}

// register stores conn under a fresh id. If capacity is exceeded it
// closes and removes the oldest registered connection, returning its id.
func (r *registry) register(conn net.Conn) (id, evictedID uint64, evicted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id = r.nextID
	r.conns[id] = r.recency.PushFront(&regEntry{id: id, conn: conn})

	if len(r.conns) > r.maxConns {
		victim := r.recency.Back()
		e := victim.Value
		_ = e.conn.Close()
		delete(r.conns, e.id)
		r.recency.Remove(victim)
		return id, e.id, true
	}
	return id, 0, false
}

// deregister removes the mapping if present; idempotent.
func (r *registry) deregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, ok := r.conns[id]
	if !ok {
		return
	}
	delete(r.conns, id)
	r.recency.Remove(elem)
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
