package replication

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

// Replicator forwards write commands to a single downstream peer. It is
// best-effort: every failure is logged and swallowed, never surfaced to
// the client whose write triggered the forward.
type Replicator struct {
	peerAddr string
	timeout  time.Duration

	logger *slog.Logger
}

func New(peerAddr string, logger *slog.Logger) *Replicator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Replicator{
		peerAddr: peerAddr,
		timeout:  3 * time.Second,
		logger:   logger,
	}
}

// Replicate opens a fresh connection to the peer, sends one SET command
// and closes. No acknowledgment is awaited.
func (r *Replicator) Replicate(key, value string, ttlSeconds int64) {
	conn, err := net.DialTimeout("tcp", r.peerAddr, r.timeout)
	if err != nil {
		r.logger.Info(fmt.Sprintf("replication to %s failed: %v", r.peerAddr, err))
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(r.timeout))
	if _, err := fmt.Fprintf(conn, "SET %s %s %d\r\n", key, value, ttlSeconds); err != nil {
		r.logger.Info(fmt.Sprintf("replication to %s failed: %v", r.peerAddr, err))
	}
}
