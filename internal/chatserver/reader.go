package chatserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/kstaniek/go-chippy-chat/internal/hub"
	"github.com/kstaniek/go-chippy-chat/internal/logging"
	"github.com/kstaniek/go-chippy-chat/internal/metrics"
	"github.com/kstaniek/go-chippy-chat/protocol"
	"github.com/kstaniek/go-chippy-chat/sansio"
)

// startReader launches the goroutine that decodes one ToServerMessage frame
// at a time off conn and dispatches each against the room.
func (s *Server) startReader(ctxDone <-chan struct{}, conn net.Conn, cl *hub.Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = conn.Close() }()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(s.readDeadline))
			msg, err := sansio.DriveReader[struct{}, protocol.ToServerMessage](
				protocol.NewToServerFrameMachine(), struct{}{}, conn)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return
				}
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				var de *protocol.DecodeError
				if errors.As(err, &de) {
					metrics.IncDecodeError(metrics.DirToServer, decodeErrorKind(de))
				}
				wrap := fmt.Errorf("%w: %v", ErrConnRead, err)
				s.setError(wrap)
				logger.Warn("frame_decode_error", "error", wrap)
				return
			}
			tag := tagFor(msg.Kind)
			metrics.IncDecoded(metrics.DirToServer, tag)
			logging.WithTag(logger, tag).Debug("frame_decoded")
			s.dispatch(cl, msg, logger)
			select {
			case <-ctxDone:
				return
			default:
			}
		}
	}()
}

func decodeErrorKind(de *protocol.DecodeError) string {
	if de.Kind == protocol.InvalidKind {
		return "invalid_kind"
	}
	return "payload"
}

func tagFor(kind protocol.ToServerKind) byte {
	switch kind {
	case protocol.ToServerSendMessage:
		return protocol.TagTextMessage
	case protocol.ToServerIntroduction:
		return protocol.TagIntroduction
	case protocol.ToServerGetStartInformation:
		return protocol.TagAllPlayers
	case protocol.ToServerGetSpecificPlayer:
		return protocol.TagSpecificPlayer
	case protocol.ToServerAddToPot:
		return protocol.TagAddToPot
	default:
		return 0
	}
}
