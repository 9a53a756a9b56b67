package server

import (
	"net"
	"testing"
	"time"
)

func pipeConn(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return server, client
}

func assertClosed(t *testing.T, peer net.Conn) {
	t.Helper()
	_ = peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := peer.Read(buf); err == nil {
		t.Fatal("expected connection to be closed")
	}
}

func TestRegisterAssignsIncreasingIDs(t *testing.T) {
	r := newRegistry(10)

	c1, _ := pipeConn(t)
	c2, _ := pipeConn(t)

	id1, _, evicted := r.register(c1)
	if evicted {
		t.Fatal("unexpected eviction under capacity")
	}
	id2, _, _ := r.register(c2)
	if id2 <= id1 {
		t.Fatalf("ids not increasing: %d then %d", id1, id2)
	}
	if r.size() != 2 {
		t.Fatalf("size = %d, want 2", r.size())
	}
}

func TestRegisterOverCapacityClosesOldest(t *testing.T) {
	r := newRegistry(2)

	c1, peer1 := pipeConn(t)
	c2, peer2 := pipeConn(t)
	c3, _ := pipeConn(t)

	id1, _, _ := r.register(c1)
	r.register(c2)

	_, evictedID, evicted := r.register(c3)
	if !evicted {
		t.Fatal("expected eviction over capacity")
	}
	if evictedID != id1 {
		t.Fatalf("evicted id = %d, want oldest id %d", evictedID, id1)
	}
	if r.size() != 2 {
		t.Fatalf("size = %d, want 2", r.size())
	}

	assertClosed(t, peer1)

	// the second connection must be untouched
	go func() { _, _ = c2.Write([]byte("x")) }()
	_ = peer2.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := peer2.Read(buf); err != nil {
		t.Fatalf("second connection should still be open: %v", err)
	}
}

func TestDeregisterIsIdempotent(t *testing.T) {
	r := newRegistry(2)

	c1, _ := pipeConn(t)
	id, _, _ := r.register(c1)

	r.deregister(id)
	if r.size() != 0 {
		t.Fatalf("size after deregister = %d, want 0", r.size())
	}
	r.deregister(id)
	r.deregister(9999)
	if r.size() != 0 {
		t.Fatalf("size after repeat deregister = %d, want 0", r.size())
	}
}

func TestDeregisterFreesCapacity(t *testing.T) {
	r := newRegistry(1)

	c1, _ := pipeConn(t)
	id1, _, _ := r.register(c1)
	r.deregister(id1)

	c2, _ := pipeConn(t)
	_, _, evicted := r.register(c2)
	if evicted {
		t.Fatal("no eviction expected after deregister freed capacity")
	}
}
