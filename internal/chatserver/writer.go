package chatserver

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/internal/hub"
	"github.com/kstaniek/go-chippy-chat/internal/metrics"
	"github.com/kstaniek/go-chippy-chat/protocol"
)

// startWriter launches the goroutine pushing hub messages out to a single
// client connection, one frame per write (the protocol is request/reply
// chat traffic, not a high-rate stream worth batching).
func (s *Server) startWriter(ctxDone <-chan struct{}, conn net.Conn, cl *hub.Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = conn.Close()
			s.Hub.Remove(cl)
			if cl.ID != uuid.Nil {
				if p, ok := s.Room.Player(cl.ID); ok {
					s.Hub.Admin(p.Name + " left the table")
				}
				s.Room.Remove(cl.ID)
			}
			s.totalDisconnect.Add(1)
			logger.Info("client_disconnected")
		}()
		for {
			select {
			case msg := <-cl.Out:
				var buf []byte
				protocol.EncodeToClient(&buf, msg)
				if _, err := conn.Write(buf); err != nil {
					wrap := fmt.Errorf("%w: %v", ErrConnWrite, err)
					s.setError(wrap)
					logger.Warn("conn_write_failed", "error", wrap)
					return
				}
				metrics.IncEncoded(metrics.DirToClient, tagForToClient(msg.Kind))
			case <-cl.Closed:
				return
			case <-ctxDone:
				return
			}
		}
	}()
}

func tagForToClient(kind protocol.ToClientKind) byte {
	switch kind {
	case protocol.ToClientTxtSent:
		return protocol.TagTextMessage
	case protocol.ToClientAdminMsg:
		return protocol.TagAdminMsg
	case protocol.ToClientIntroduced:
		return protocol.TagIntroduction
	case protocol.ToClientPot:
		return protocol.TagPot
	case protocol.ToClientAllPlayers:
		return protocol.TagAllPlayers
	case protocol.ToClientSpecificPlayer:
		return protocol.TagSpecificPlayer
	default:
		return 0
	}
}
