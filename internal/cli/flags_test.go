package cli

import "testing"

func noEnv(string) string { return "" }

func envFrom(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestParseFlagsDefaults(t *testing.T) {
	opt, err := parseFlags(nil, noEnv)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if opt.listenAddr != ":6379" {
		t.Fatalf("listenAddr = %q, want :6379", opt.listenAddr)
	}
	if opt.role != "master" {
		t.Fatalf("role = %q, want master", opt.role)
	}
	if opt.maxItems != 10000 {
		t.Fatalf("maxItems = %d, want 10000", opt.maxItems)
	}
	if opt.maxConns != 1000 {
		t.Fatalf("maxConns = %d, want 1000", opt.maxConns)
	}
	if opt.dumpPath != "dump.json" {
		t.Fatalf("dumpPath = %q, want dump.json", opt.dumpPath)
	}
}

func TestParseFlagsEnvDefaults(t *testing.T) {
	env := envFrom(map[string]string{
		"NODE_ROLE":       "slave",
		"LISTEN_PORT":     "7000",
		"PEER_HOST":       "10.0.0.2",
		"PEER_PORT":       "7001",
		"MAX_ITEMS":       "50",
		"MAX_CONNECTIONS": "5",
		"DUMP_PATH":       "/tmp/snap.json",
	})

	opt, err := parseFlags(nil, env)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if opt.role != "slave" {
		t.Fatalf("role = %q, want slave", opt.role)
	}
	if opt.listenAddr != ":7000" {
		t.Fatalf("listenAddr = %q, want :7000", opt.listenAddr)
	}
	if opt.peerHost != "10.0.0.2" || opt.peerPort != 7001 {
		t.Fatalf("peer = %s:%d, want 10.0.0.2:7001", opt.peerHost, opt.peerPort)
	}
	if opt.maxItems != 50 || opt.maxConns != 5 {
		t.Fatalf("capacities = %d/%d, want 50/5", opt.maxItems, opt.maxConns)
	}
	if opt.dumpPath != "/tmp/snap.json" {
		t.Fatalf("dumpPath = %q, want /tmp/snap.json", opt.dumpPath)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	env := envFrom(map[string]string{"NODE_ROLE": "slave", "MAX_ITEMS": "50"})

	opt, err := parseFlags([]string{"-role", "master", "-max-items", "7"}, env)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opt.role != "master" {
		t.Fatalf("role = %q, want flag override master", opt.role)
	}
	if opt.maxItems != 7 {
		t.Fatalf("maxItems = %d, want flag override 7", opt.maxItems)
	}
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	if _, err := parseFlags([]string{"-role", "follower"}, noEnv); err == nil {
		t.Fatal("expected error for invalid role")
	}
	if _, err := parseFlags(nil, envFrom(map[string]string{"LISTEN_PORT": "abc"})); err == nil {
		t.Fatal("expected error for non-numeric LISTEN_PORT")
	}
	if _, err := parseFlags([]string{"-max-items", "0"}, noEnv); err == nil {
		t.Fatal("expected error for zero max-items")
	}
	if _, err := parseFlags([]string{"-max-connections", "-1"}, noEnv); err == nil {
		t.Fatal("expected error for negative max-connections")
	}
}
