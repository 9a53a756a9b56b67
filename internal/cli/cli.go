package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/shirasu/kioku/internal/server"
)

var Version string

func version() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}

	return info.Main.Version
}

type CLI struct {
	stdout io.Writer
	stderr io.Writer
}

func NewCLI(stdout, stderr io.Writer) *CLI {
	return &CLI{
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *CLI) Run(args []string) int {
	opts, err := parseFlags(args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to parse configuration: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(c.stdout, "kioku version %s; %s\n", version(), runtime.Version())
		return 0
	}

	var peerAddr string
	if opts.role == "master" && opts.peerHost != "" {
		peerAddr = net.JoinHostPort(opts.peerHost, strconv.Itoa(opts.peerPort))
	}

	logger := slog.New(slog.NewTextHandler(c.stderr, nil))
	srv := server.NewServer(server.Config{
		ListenAddr: opts.listenAddr,
		Role:       server.Role(opts.role),
		PeerAddr:   peerAddr,
		MaxItems:   opts.maxItems,
		MaxConns:   opts.maxConns,
		DumpPath:   opts.dumpPath,
		Verbose:    opts.verbose,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(c.stderr, "server failed: %v\n", err)
		return 1
	}
	return 0
}
