package protocol

import (
	"fmt"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
	"github.com/kstaniek/go-chippy-chat/wirecodec"
)

// Player is one seat at the table: a display name and a running balance.
type Player struct {
	Name    string
	Balance uint32
}

type playerPhase int

const (
	playerPhaseName playerPhase = iota
	playerPhaseBalance
)

// PlayerMachine decodes a Player as its name string followed by an unsigned
// VLI balance.
type PlayerMachine struct {
	phase       playerPhase
	nameMachine sansio.Machine[struct{}, string]
	name        string
	balMachine  *varint.Machine
}

func NewPlayerMachine() sansio.Machine[struct{}, Player] {
	return &PlayerMachine{nameMachine: wirecodec.NewStringMachine()}
}

var _ sansio.Machine[struct{}, Player] = (*PlayerMachine)(nil)

func (m *PlayerMachine) Want() sansio.Slot {
	if m.phase == playerPhaseName {
		return m.nameMachine.Want()
	}
	return m.balMachine.Want()
}

func (m *PlayerMachine) GiveExtra(struct{}) {}

func (m *PlayerMachine) FinishBytes(n int) {
	if m.phase == playerPhaseName {
		m.nameMachine.FinishBytes(n)
		return
	}
	m.balMachine.FinishBytes(n)
}

func (m *PlayerMachine) Process() (Player, bool, error) {
	if m.phase == playerPhaseName {
		name, done, err := m.nameMachine.Process()
		if err != nil {
			return Player{}, false, fmt.Errorf("player: name: %w", err)
		}
		if !done {
			return Player{}, false, nil
		}
		m.name = name
		m.balMachine = varint.NewMachine()
		m.balMachine.GiveExtra(varint.Unsigned)
		m.phase = playerPhaseBalance
		return Player{}, false, nil
	}
	n, done, err := m.balMachine.Process()
	if err != nil {
		return Player{}, false, fmt.Errorf("player: balance: %w", err)
	}
	if !done {
		return Player{}, false, nil
	}
	balance, err := varint.ToUnsigned[uint32](n)
	if err != nil {
		return Player{}, false, fmt.Errorf("player: balance: %w", err)
	}
	return Player{Name: m.name, Balance: balance}, true, nil
}

// EncodePlayer appends p's wire encoding: name then unsigned VLI balance.
func EncodePlayer(into *[]byte, p Player) {
	wirecodec.EncodeString(into, p.Name)
	varint.Encode(into, varint.FromUnsigned(p.Balance))
}
