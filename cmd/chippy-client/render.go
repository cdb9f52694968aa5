package main

import (
	"fmt"

	"github.com/kstaniek/go-chippy-chat/protocol"
)

// render formats one decoded server→client message for the terminal. The
// GUI client this mirrors (see original_source/crates/chippy) renders the
// same events as widget updates instead of lines of text; the event shapes
// are identical, only the presentation differs.
func render(msg protocol.ToClientMessage) string {
	switch msg.Kind {
	case protocol.ToClientTxtSent:
		return fmt.Sprintf("<%s> %s", msg.From, msg.Content)
	case protocol.ToClientAdminMsg:
		return fmt.Sprintf("* %s", msg.Content)
	case protocol.ToClientIntroduced:
		return fmt.Sprintf("* you are %s", msg.Introduced)
	case protocol.ToClientPot:
		return fmt.Sprintf("* pot is now %d (%d players have put in)", msg.Pot.CurrentValue, len(msg.Pot.ReadyToPutIn))
	case protocol.ToClientAllPlayers:
		return fmt.Sprintf("* %d player(s) at the table", len(msg.AllPlayers))
	case protocol.ToClientSpecificPlayer:
		return fmt.Sprintf("* %s: %s (balance %d)", msg.From, msg.Player.Name, msg.Player.Balance)
	default:
		return "* unrecognized message"
	}
}
