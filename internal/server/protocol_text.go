package server

import (
	"fmt"
	"strconv"
	"strings"
)

type request struct {
	cmd    string
	args   []string
	isQuit bool
}

// parseLine splits a command line into whitespace-separated tokens. The
// command word is case-insensitive. Values containing whitespace are not
// representable; the protocol has no quoting.
func parseLine(line string) (request, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return request{}, false
	}

	cmd := strings.ToLower(fields[0])
	if cmd == "quit" {
		return request{cmd: cmd, isQuit: true}, true
	}

	return request{cmd: cmd, args: fields[1:]}, true
}

func parseSetArgs(args []string) (key, value string, ttl int64, err error) {
	if len(args) != 3 {
		return "", "", 0, fmt.Errorf("wrong number of arguments for 'set' command")
	}

	ttl, err = strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("value is not an integer or out of range")
	}
	return args[0], args[1], ttl, nil
}

func parseLimitArgs(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("wrong number of arguments for 'limit' command")
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("value is not an integer or out of range")
	}
	return size, nil
}
