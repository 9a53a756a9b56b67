package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
)

func (s *Server) handleConn(conn net.Conn) {
	id, evictedID, evicted := s.registry.register(conn)
	if evicted {
		s.logger.Info(fmt.Sprintf("connection %d evicted: registry over capacity", evictedID))
	}
	defer func() {
		s.registry.deregister(id)
		_ = conn.Close()
	}()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		line, err := readCommandLine(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logf("read error on connection %d: %v", id, err)
			}
			return
		}

		req, ok := parseLine(line)
		if !ok {
			// blank line, nothing to answer
			continue
		}
		if req.isQuit {
			return
		}

		switch req.cmd {
		case "set":
			err = s.handleSet(w, req.args)
		case "get":
			err = s.handleGet(w, req.args)
		case "dump":
			err = s.handleDump(w, req.args)
		case "limit":
			err = s.handleLimit(w, req.args)
		default:
			err = writeError(w, fmt.Sprintf("unknown command '%s'", req.cmd))
		}
		if err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

func (s *Server) handleSet(w *bufio.Writer, args []string) error {
	key, value, ttl, err := parseSetArgs(args)
	if err != nil {
		return writeError(w, err.Error())
	}

	s.store.Set(key, value, ttl)
	if s.replicator != nil {
		go s.replicator.Replicate(key, value, ttl)
	}
	return writeOK(w)
}

func (s *Server) handleGet(w *bufio.Writer, args []string) error {
	if len(args) != 1 {
		return writeError(w, "wrong number of arguments for 'get' command")
	}

	value, ok := s.store.Get(args[0])
	if !ok {
		return writeNullBulk(w)
	}
	return writeBulk(w, value)
}

func (s *Server) handleDump(w *bufio.Writer, args []string) error {
	if len(args) > 1 {
		return writeError(w, "wrong number of arguments for 'dump' command")
	}

	path := s.cfg.DumpPath
	if len(args) == 1 {
		path = args[0]
	}
	if err := s.store.DumpToFile(path); err != nil {
		return writeError(w, fmt.Sprintf("dump failed: %v", err))
	}
	return writeOK(w)
}

func (s *Server) handleLimit(w *bufio.Writer, args []string) error {
	size, err := parseLimitArgs(args)
	if err != nil {
		return writeError(w, err.Error())
	}
	if err := s.store.Resize(size); err != nil {
		return writeError(w, "value is not an integer or out of range")
	}

	s.logger.Info(fmt.Sprintf("item capacity set to %d", size))
	return writeOK(w)
}

func writeOK(w *bufio.Writer) error {
	_, err := w.WriteString("+OK\r\n")
	return err
}

func writeError(w *bufio.Writer, msg string) error {
	_, err := fmt.Fprintf(w, "-ERR %s\r\n", msg)
	return err
}

func writeBulk(w *bufio.Writer, value string) error {
	_, err := fmt.Fprintf(w, "$%d\r\n%s\r\n", len(value), value)
	return err
}

func writeNullBulk(w *bufio.Writer) error {
	_, err := w.WriteString("$-1\r\n")
	return err
}

// readCommandLine accepts CRLF, LF, CR and CR NUL (common telnet newline).
func readCommandLine(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer

	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && buf.Len() > 0 {
				return buf.String(), nil
			}
			return "", err
		}

		switch b {
		case '\n':
			return buf.String(), nil
		case '\r':
			next, err := r.ReadByte()
			if err == nil {
				if next != '\n' && next != 0x00 {
					if unreadErr := r.UnreadByte(); unreadErr != nil {
						return "", unreadErr
					}
				}
			} else if !errors.Is(err, io.EOF) {
				return "", err
			}
			return buf.String(), nil
		default:
			buf.WriteByte(b)
		}
	}
}
