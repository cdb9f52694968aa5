// Command chippy-client is a terminal front end for the chat/pot protocol:
// it introduces itself, prints every incoming server→client message, and
// turns typed lines (plus a couple of slash commands) into outgoing
// client→server ones.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/protocol"
	"github.com/kstaniek/go-chippy-chat/sansio"
)

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("chippy-client %s\n", version)
		return
	}
	if cfg == nil {
		os.Exit(2)
	}
	logger := setupLogger(cfg.logFormat, cfg.logLevel)

	conn, err := net.DialTimeout("tcp", cfg.addr, cfg.dialTO)
	if err != nil {
		logger.Error("dial_failed", "addr", cfg.addr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	var out []byte
	protocol.EncodeToServer(&out, protocol.Introduction(cfg.name))
	if _, err := conn.Write(out); err != nil {
		logger.Error("write_failed", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go readLoop(conn, logger, done)
	writeLoop(conn, logger)
	<-done
}

// readLoop decodes one ToClientMessage frame at a time off conn until the
// stream ends or a malformed frame forces the connection to be abandoned.
func readLoop(conn net.Conn, logger *slog.Logger, done chan<- struct{}) {
	defer close(done)
	for {
		msg, err := sansio.DriveReader[struct{}, protocol.ToClientMessage](
			protocol.NewToClientFrameMachine(), struct{}{}, conn)
		if err != nil {
			logger.Warn("connection_closed", "error", err)
			return
		}
		fmt.Println(render(msg))
	}
}

// writeLoop turns stdin lines into client→server messages: a bare line is a
// chat message, "/pot <amount>" adds to the shared pot, "/who" asks for
// every connected player, "/player <uuid>" asks for one. "/quit" exits.
func writeLoop(conn net.Conn, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			_ = conn.Close()
			return
		}
		msg, ok := parseCommand(line)
		if !ok {
			continue
		}
		var buf []byte
		protocol.EncodeToServer(&buf, msg)
		if _, err := conn.Write(buf); err != nil {
			logger.Warn("write_failed", "error", err)
			return
		}
	}
}

func parseCommand(line string) (protocol.ToServerMessage, bool) {
	switch {
	case line == "/quit":
		return protocol.ToServerMessage{}, false
	case line == "/who":
		return protocol.GetStartInformation(), true
	case strings.HasPrefix(line, "/player "):
		id, err := uuid.Parse(strings.TrimSpace(strings.TrimPrefix(line, "/player ")))
		if err != nil {
			fmt.Println("* invalid uuid")
			return protocol.ToServerMessage{}, false
		}
		return protocol.GetSpecificPlayer(id), true
	case strings.HasPrefix(line, "/pot "):
		n, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(line, "/pot ")), 10, 32)
		if err != nil {
			fmt.Println("* invalid amount")
			return protocol.ToServerMessage{}, false
		}
		return protocol.AddToPot(uint32(n)), true
	default:
		return protocol.SendMessage(line), true
	}
}
