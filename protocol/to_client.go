package protocol

import (
	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/wirecodec"
)

// ToClientKind discriminates the payload carried by a ToClientMessage.
type ToClientKind int

const (
	ToClientTxtSent ToClientKind = iota
	ToClientAdminMsg
	ToClientIntroduced
	ToClientPot
	ToClientAllPlayers
	ToClientSpecificPlayer
)

// ToClientMessage is the server→client frame union. Only the field(s)
// matching Kind are meaningful.
type ToClientMessage struct {
	Kind ToClientKind

	From    uuid.UUID // TxtSent/SpecificPlayer
	Content string    // TxtSent/AdminMsg

	Introduced uuid.UUID // Introduced

	Pot PotSnapshot // Pot

	AllPlayers map[uuid.UUID]Player // AllPlayers

	Player Player // SpecificPlayer
}

func TxtSent(from uuid.UUID, content string) ToClientMessage {
	return ToClientMessage{Kind: ToClientTxtSent, From: from, Content: content}
}

func AdminMsg(content string) ToClientMessage {
	return ToClientMessage{Kind: ToClientAdminMsg, Content: content}
}

func Introduced(id uuid.UUID) ToClientMessage {
	return ToClientMessage{Kind: ToClientIntroduced, Introduced: id}
}

func PotUpdate(p PotSnapshot) ToClientMessage {
	return ToClientMessage{Kind: ToClientPot, Pot: p}
}

func AllPlayersMessage(players map[uuid.UUID]Player) ToClientMessage {
	return ToClientMessage{Kind: ToClientAllPlayers, AllPlayers: players}
}

func SpecificPlayer(id uuid.UUID, p Player) ToClientMessage {
	return ToClientMessage{Kind: ToClientSpecificPlayer, From: id, Player: p}
}

// EncodeToClient appends msg's wire encoding (tag byte, then payload) to
// *into.
func EncodeToClient(into *[]byte, msg ToClientMessage) {
	switch msg.Kind {
	case ToClientTxtSent:
		*into = append(*into, TagTextMessage)
		wirecodec.EncodeUUID(into, msg.From)
		wirecodec.EncodeString(into, msg.Content)
	case ToClientAdminMsg:
		*into = append(*into, TagAdminMsg)
		wirecodec.EncodeString(into, msg.Content)
	case ToClientIntroduced:
		*into = append(*into, TagIntroduction)
		wirecodec.EncodeUUID(into, msg.Introduced)
	case ToClientPot:
		*into = append(*into, TagPot)
		EncodePot(into, msg.Pot)
	case ToClientAllPlayers:
		*into = append(*into, TagAllPlayers)
		wirecodec.EncodeBasicMap(into, msg.AllPlayers, wirecodec.EncodeUUID, EncodePlayer)
	case ToClientSpecificPlayer:
		*into = append(*into, TagSpecificPlayer)
		wirecodec.EncodeUUID(into, msg.From)
		EncodePlayer(into, msg.Player)
	}
}

type toClientPhase int

const (
	toClientPhaseTag toClientPhase = iota
	toClientPhaseTxtUUID
	toClientPhaseTxtContent
	toClientPhaseIntroUUID
	toClientPhaseAdminMsg
	toClientPhasePot
	toClientPhaseAllPlayers
	toClientPhasePlayerUUID
	toClientPhasePlayerBody
)

// ToClientFrameMachine decodes one ToClientMessage: a tag byte dispatches to
// the matching payload sub-machine.
type ToClientFrameMachine struct {
	phase toClientPhase
	tag   byte

	uuidMachine    sansio.Machine[struct{}, uuid.UUID]
	strMachine     sansio.Machine[struct{}, string]
	potMachine     sansio.Machine[struct{}, PotSnapshot]
	playersMachine sansio.Machine[struct{}, map[uuid.UUID]Player]
	playerMachine  sansio.Machine[struct{}, Player]

	txtFrom uuid.UUID
	plFrom  uuid.UUID
}

func NewToClientFrameMachine() sansio.Machine[struct{}, ToClientMessage] {
	return &ToClientFrameMachine{}
}

var _ sansio.Machine[struct{}, ToClientMessage] = (*ToClientFrameMachine)(nil)

func (m *ToClientFrameMachine) Want() sansio.Slot {
	switch m.phase {
	case toClientPhaseTag:
		return sansio.Slot{Kind: sansio.WantByte, Byte: &m.tag}
	case toClientPhaseTxtUUID, toClientPhaseIntroUUID, toClientPhasePlayerUUID:
		return m.uuidMachine.Want()
	case toClientPhaseTxtContent, toClientPhaseAdminMsg:
		return m.strMachine.Want()
	case toClientPhasePot:
		return m.potMachine.Want()
	case toClientPhaseAllPlayers:
		return m.playersMachine.Want()
	default:
		return m.playerMachine.Want()
	}
}

func (m *ToClientFrameMachine) GiveExtra(struct{}) {}

func (m *ToClientFrameMachine) FinishBytes(n int) {
	switch m.phase {
	case toClientPhaseTag:
	case toClientPhaseTxtUUID, toClientPhaseIntroUUID, toClientPhasePlayerUUID:
		m.uuidMachine.FinishBytes(n)
	case toClientPhaseTxtContent, toClientPhaseAdminMsg:
		m.strMachine.FinishBytes(n)
	case toClientPhasePot:
		m.potMachine.FinishBytes(n)
	case toClientPhaseAllPlayers:
		m.playersMachine.FinishBytes(n)
	default:
		m.playerMachine.FinishBytes(n)
	}
}

func (m *ToClientFrameMachine) payloadErr(err error) error {
	return &DecodeError{Kind: PayloadError, Tag: m.tag, Inner: err}
}

func (m *ToClientFrameMachine) Process() (ToClientMessage, bool, error) {
	switch m.phase {
	case toClientPhaseTag:
		switch m.tag {
		case TagTextMessage:
			m.uuidMachine = wirecodec.NewUUIDMachine()
			m.phase = toClientPhaseTxtUUID
		case TagAdminMsg:
			m.strMachine = wirecodec.NewStringMachine()
			m.phase = toClientPhaseAdminMsg
		case TagIntroduction:
			m.uuidMachine = wirecodec.NewUUIDMachine()
			m.phase = toClientPhaseIntroUUID
		case TagPot:
			m.potMachine = NewPotMachine()
			m.phase = toClientPhasePot
		case TagAllPlayers:
			m.playersMachine = wirecodec.NewBasicMap(wirecodec.NewUUIDMachine, NewPlayerMachine)
			m.phase = toClientPhaseAllPlayers
		case TagSpecificPlayer:
			m.uuidMachine = wirecodec.NewUUIDMachine()
			m.phase = toClientPhasePlayerUUID
		default:
			return ToClientMessage{}, false, &DecodeError{Kind: InvalidKind, Tag: m.tag}
		}
		return ToClientMessage{}, false, nil
	case toClientPhaseTxtUUID:
		id, done, err := m.uuidMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		m.txtFrom = id
		m.strMachine = wirecodec.NewStringMachine()
		m.phase = toClientPhaseTxtContent
		return ToClientMessage{}, false, nil
	case toClientPhaseTxtContent:
		s, done, err := m.strMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return TxtSent(m.txtFrom, s), true, nil
	case toClientPhaseAdminMsg:
		s, done, err := m.strMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return AdminMsg(s), true, nil
	case toClientPhaseIntroUUID:
		id, done, err := m.uuidMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return Introduced(id), true, nil
	case toClientPhasePot:
		p, done, err := m.potMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return PotUpdate(p), true, nil
	case toClientPhaseAllPlayers:
		players, done, err := m.playersMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return AllPlayersMessage(players), true, nil
	case toClientPhasePlayerUUID:
		id, done, err := m.uuidMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		m.plFrom = id
		m.playerMachine = NewPlayerMachine()
		m.phase = toClientPhasePlayerBody
		return ToClientMessage{}, false, nil
	default:
		p, done, err := m.playerMachine.Process()
		if err != nil {
			return ToClientMessage{}, false, m.payloadErr(err)
		}
		if !done {
			return ToClientMessage{}, false, nil
		}
		return SpecificPlayer(m.plFrom, p), true, nil
	}
}
