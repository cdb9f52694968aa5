// Package protocol implements the chat/pot game frame: a one-byte tag
// followed by a variant-specific payload, in both the client→server and
// server→client directions. Tag bytes are part of the external wire
// contract; see the tag table below.
package protocol

// Tag values are stable wire constants: never reassign one, and give any
// new variant an unused tag.
const (
	TagTextMessage     byte = 1
	TagAdminMsg        byte = 2
	TagIntroduction    byte = 3
	TagAddToPot        byte = 10
	TagPot             byte = 11
	TagAllPlayers      byte = 20
	TagSpecificPlayer  byte = 21
)
