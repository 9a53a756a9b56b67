package cli

import (
	"flag"
	"fmt"
	"strconv"
)

type options struct {
	listenAddr string
	role       string
	peerHost   string
	peerPort   int
	maxItems   int
	maxConns   int
	dumpPath   string
	verbose    bool

	showVersion bool
}

// parseFlags builds options from the environment and the command line.
// Environment variables provide the defaults, flags override them.
func parseFlags(args []string, getenv func(string) string) (options, error) {
	listenPort, err := envInt(getenv, "LISTEN_PORT", 6379)
	if err != nil {
		return options{}, err
	}
	peerPort, err := envInt(getenv, "PEER_PORT", 6379)
	if err != nil {
		return options{}, err
	}
	maxItems, err := envInt(getenv, "MAX_ITEMS", 10000)
	if err != nil {
		return options{}, err
	}
	maxConns, err := envInt(getenv, "MAX_CONNECTIONS", 1000)
	if err != nil {
		return options{}, err
	}

	opt := options{}
	fs := flag.NewFlagSet("kioku", flag.ContinueOnError)
	fs.StringVar(&opt.listenAddr, "listen", fmt.Sprintf(":%d", listenPort), "TCP address to listen on")
	fs.StringVar(&opt.role, "role", envStr(getenv, "NODE_ROLE", "master"), "node role: master or slave")
	fs.StringVar(&opt.peerHost, "peer-host", getenv("PEER_HOST"), "replication peer host (master only)")
	fs.IntVar(&opt.peerPort, "peer-port", peerPort, "replication peer port (master only)")
	fs.IntVar(&opt.maxItems, "max-items", maxItems, "max cached items")
	fs.IntVar(&opt.maxConns, "max-connections", maxConns, "max simultaneous client connections")
	fs.StringVar(&opt.dumpPath, "dump-path", envStr(getenv, "DUMP_PATH", "dump.json"), "default DUMP target file")
	fs.BoolVar(&opt.verbose, "verbose", false, "verbose logging")
	fs.BoolVar(&opt.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opt.role != "master" && opt.role != "slave" {
		return options{}, fmt.Errorf("invalid role %q: must be master or slave", opt.role)
	}
	if opt.maxItems <= 0 {
		return options{}, fmt.Errorf("max-items must be positive")
	}
	if opt.maxConns <= 0 {
		return options{}, fmt.Errorf("max-connections must be positive")
	}

	return opt, nil
}

func envStr(getenv func(string) string, name, fallback string) string {
	if v := getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, name string, fallback int) (int, error) {
	v := getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, v)
	}
	return n, nil
}
