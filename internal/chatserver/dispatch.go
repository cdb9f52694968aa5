package chatserver

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/internal/hub"
	"github.com/kstaniek/go-chippy-chat/protocol"
)

// dispatch applies one decoded ToServerMessage against the room, replying
// to and/or broadcasting from cl as the message requires.
func (s *Server) dispatch(cl *hub.Client, msg protocol.ToServerMessage, logger *slog.Logger) {
	switch msg.Kind {
	case protocol.ToServerIntroduction:
		id := s.Room.Introduce(msg.Name)
		cl.ID = id
		s.Hub.Unicast(cl, protocol.Introduced(id))
		s.Hub.Admin(msg.Name + " joined the table")

	case protocol.ToServerSendMessage:
		if cl.ID == uuid.Nil {
			logger.Warn("message_rejected", "error", ErrNotIntroduced)
			return
		}
		s.Hub.Broadcast(protocol.TxtSent(cl.ID, msg.Content))

	case protocol.ToServerGetStartInformation:
		s.Hub.Unicast(cl, protocol.AllPlayersMessage(s.Room.AllPlayers()))

	case protocol.ToServerGetSpecificPlayer:
		p, ok := s.Room.Player(msg.SpecificPlayer)
		if !ok {
			logger.Warn("get_specific_player_unknown", "player", msg.SpecificPlayer)
			return
		}
		s.Hub.Unicast(cl, protocol.SpecificPlayer(msg.SpecificPlayer, p))

	case protocol.ToServerAddToPot:
		if cl.ID == uuid.Nil {
			logger.Warn("add_to_pot_rejected", "error", ErrNotIntroduced)
			return
		}
		if err := s.Room.AddToPot(cl.ID, msg.Amount); err != nil {
			logger.Error("add_to_pot_failed", "error", err)
			return
		}
		s.Hub.Broadcast(protocol.PotUpdate(s.Room.PotSnapshot()))
	}
}
