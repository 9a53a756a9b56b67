package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/shirasu/kioku/internal/replication"
	"github.com/shirasu/kioku/internal/store"
)

type Role string

const (
	RoleMaster Role = "master"
	RoleSlave  Role = "slave"
)

type Config struct {
	ListenAddr string

	// Role decides whether writes are forwarded. A slave node holds no
	// replicator at all.
	Role     Role
	PeerAddr string

	MaxItems int
	MaxConns int

	// SweepInterval of 0 means the 1 second default; negative disables
	// the sweep entirely.
	SweepInterval time.Duration

	// DumpPath is the snapshot target when DUMP is issued without a
	// filename. Empty means "dump.json".
	DumpPath string

	Verbose bool
	Logger  *slog.Logger
}

type Server struct {
	cfg      Config
	store    *store.Store
	registry *registry

	// replicator is nil unless cfg.Role is master and a peer is set.
	replicator *replication.Replicator

	mu        sync.RWMutex
	listener  net.Listener
	readyCh   chan struct{}
	readyOnce sync.Once
	closed    bool

	logger *slog.Logger
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Role == "" {
		cfg.Role = RoleMaster
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Second
	}
	if cfg.DumpPath == "" {
		cfg.DumpPath = "dump.json"
	}

	s := &Server{
		cfg: cfg,
		store: store.New(store.Config{
			MaxItems:      cfg.MaxItems,
			SweepInterval: cfg.SweepInterval,
		}),
		registry: newRegistry(cfg.MaxConns),
		readyCh:  make(chan struct{}),
		logger:   logger,
	}

	if cfg.Role == RoleMaster && cfg.PeerAddr != "" {
		s.replicator = replication.New(cfg.PeerAddr, logger)
	}

	return s
}

func (s *Server) Ready() <-chan struct{} {
	return s.readyCh
}

func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.readyCh) })

	s.logf("listening on %s (role %s)", ln.Addr().String(), s.cfg.Role)

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Temporary() {
				s.logf("temporary accept error: %v", err)
				continue
			}
			s.logf("accept error: %v", err)
			return err
		}

		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.store.Close()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) logf(format string, args ...any) {
	if !s.cfg.Verbose {
		return
	}
	s.logger.Info(fmt.Sprintf(format, args...))
}
