package protocol

import (
	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
	"github.com/kstaniek/go-chippy-chat/wirecodec"
)

// ToServerKind discriminates the payload carried by a ToServerMessage.
type ToServerKind int

const (
	ToServerSendMessage ToServerKind = iota
	ToServerIntroduction
	ToServerGetStartInformation
	ToServerGetSpecificPlayer
	ToServerAddToPot
)

// ToServerMessage is the client→server frame union. Only the field(s)
// matching Kind are meaningful.
type ToServerMessage struct {
	Kind ToServerKind

	Content        string    // SendMessage
	Name           string    // Introduction
	SpecificPlayer uuid.UUID // GetSpecificPlayer
	Amount         uint32    // AddToPot
}

func SendMessage(content string) ToServerMessage {
	return ToServerMessage{Kind: ToServerSendMessage, Content: content}
}

func Introduction(name string) ToServerMessage {
	return ToServerMessage{Kind: ToServerIntroduction, Name: name}
}

func GetStartInformation() ToServerMessage {
	return ToServerMessage{Kind: ToServerGetStartInformation}
}

func GetSpecificPlayer(id uuid.UUID) ToServerMessage {
	return ToServerMessage{Kind: ToServerGetSpecificPlayer, SpecificPlayer: id}
}

func AddToPot(amount uint32) ToServerMessage {
	return ToServerMessage{Kind: ToServerAddToPot, Amount: amount}
}

// EncodeToServer appends msg's wire encoding (tag byte, then payload) to
// *into.
func EncodeToServer(into *[]byte, msg ToServerMessage) {
	switch msg.Kind {
	case ToServerSendMessage:
		*into = append(*into, TagTextMessage)
		wirecodec.EncodeString(into, msg.Content)
	case ToServerIntroduction:
		*into = append(*into, TagIntroduction)
		wirecodec.EncodeString(into, msg.Name)
	case ToServerGetStartInformation:
		*into = append(*into, TagAllPlayers)
	case ToServerGetSpecificPlayer:
		*into = append(*into, TagSpecificPlayer)
		wirecodec.EncodeUUID(into, msg.SpecificPlayer)
	case ToServerAddToPot:
		*into = append(*into, TagAddToPot)
		varint.Encode(into, varint.FromUnsigned(msg.Amount))
	}
}

type toServerPhase int

const (
	toServerPhaseTag toServerPhase = iota
	toServerPhaseString  // SendMessage/Introduction payload
	toServerPhaseUUID    // GetSpecificPlayer payload
	toServerPhaseInt     // AddToPot payload
)

// ToServerFrameMachine decodes one ToServerMessage: a tag byte dispatches to
// the matching payload sub-machine.
type ToServerFrameMachine struct {
	phase toServerPhase
	tag   byte

	strMachine sansio.Machine[struct{}, string]
	uuidMachine sansio.Machine[struct{}, uuid.UUID]
	intMachine *varint.Machine
}

func NewToServerFrameMachine() sansio.Machine[struct{}, ToServerMessage] {
	return &ToServerFrameMachine{}
}

var _ sansio.Machine[struct{}, ToServerMessage] = (*ToServerFrameMachine)(nil)

func (m *ToServerFrameMachine) Want() sansio.Slot {
	switch m.phase {
	case toServerPhaseTag:
		return sansio.Slot{Kind: sansio.WantByte, Byte: &m.tag}
	case toServerPhaseString:
		return m.strMachine.Want()
	case toServerPhaseUUID:
		return m.uuidMachine.Want()
	default:
		return m.intMachine.Want()
	}
}

func (m *ToServerFrameMachine) GiveExtra(struct{}) {}

func (m *ToServerFrameMachine) FinishBytes(n int) {
	switch m.phase {
	case toServerPhaseTag:
		// handled in Process: a tag byte write always advances to Process.
	case toServerPhaseString:
		m.strMachine.FinishBytes(n)
	case toServerPhaseUUID:
		m.uuidMachine.FinishBytes(n)
	default:
		m.intMachine.FinishBytes(n)
	}
}

func (m *ToServerFrameMachine) Process() (ToServerMessage, bool, error) {
	switch m.phase {
	case toServerPhaseTag:
		switch m.tag {
		case TagTextMessage, TagIntroduction:
			m.strMachine = wirecodec.NewStringMachine()
			m.phase = toServerPhaseString
			return ToServerMessage{}, false, nil
		case TagAllPlayers:
			return ToServerMessage{Kind: ToServerGetStartInformation}, true, nil
		case TagSpecificPlayer:
			m.uuidMachine = wirecodec.NewUUIDMachine()
			m.phase = toServerPhaseUUID
			return ToServerMessage{}, false, nil
		case TagAddToPot:
			im := varint.NewMachine()
			im.GiveExtra(varint.Unsigned)
			m.intMachine = im
			m.phase = toServerPhaseInt
			return ToServerMessage{}, false, nil
		default:
			return ToServerMessage{}, false, &DecodeError{Kind: InvalidKind, Tag: m.tag}
		}
	case toServerPhaseString:
		s, done, err := m.strMachine.Process()
		if err != nil {
			return ToServerMessage{}, false, &DecodeError{Kind: PayloadError, Tag: m.tag, Inner: err}
		}
		if !done {
			return ToServerMessage{}, false, nil
		}
		if m.tag == TagTextMessage {
			return SendMessage(s), true, nil
		}
		return Introduction(s), true, nil
	case toServerPhaseUUID:
		id, done, err := m.uuidMachine.Process()
		if err != nil {
			return ToServerMessage{}, false, &DecodeError{Kind: PayloadError, Tag: m.tag, Inner: err}
		}
		if !done {
			return ToServerMessage{}, false, nil
		}
		return GetSpecificPlayer(id), true, nil
	default:
		n, done, err := m.intMachine.Process()
		if err != nil {
			return ToServerMessage{}, false, &DecodeError{Kind: PayloadError, Tag: m.tag, Inner: err}
		}
		if !done {
			return ToServerMessage{}, false, nil
		}
		amount, err := varint.ToUnsigned[uint32](n)
		if err != nil {
			return ToServerMessage{}, false, &DecodeError{Kind: PayloadError, Tag: m.tag, Inner: err}
		}
		return AddToPot(amount), true, nil
	}
}
