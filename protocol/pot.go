package protocol

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
	"github.com/kstaniek/go-chippy-chat/wirecodec"
)

// PotSnapshot is the shared pot's current total plus, per player who has
// put their share in, the amount they put in.
type PotSnapshot struct {
	CurrentValue uint32
	ReadyToPutIn map[uuid.UUID]uint32
}

type potPhase int

const (
	potPhaseValue potPhase = iota
	potPhaseCount
	potPhaseEntries
)

func newUUIDIntTuple() sansio.Machine[wirecodec.TupleExtra[struct{}, varint.Sign], wirecodec.Pair[uuid.UUID, varint.Int]] {
	return wirecodec.NewTuple[struct{}, varint.Sign, uuid.UUID, varint.Int](
		wirecodec.NewUUIDMachine,
		func() sansio.Machine[varint.Sign, varint.Int] { return varint.NewMachine() },
	)
}

// PotMachine decodes a PotSnapshot: an unsigned VLI current value, an
// unsigned VLI entry count, then that many (Uuid, unsigned VLI amount)
// pairs — the entry count is read once and never repeated on the wire for
// each entry.
type PotMachine struct {
	phase       potPhase
	valMachine  *varint.Machine
	value       uint32
	cntMachine  *varint.Machine
	entries     sansio.Machine[[]wirecodec.TupleExtra[struct{}, varint.Sign], []wirecodec.Pair[uuid.UUID, varint.Int]]
}

func NewPotMachine() sansio.Machine[struct{}, PotSnapshot] {
	vm := varint.NewMachine()
	vm.GiveExtra(varint.Unsigned)
	return &PotMachine{phase: potPhaseValue, valMachine: vm}
}

var _ sansio.Machine[struct{}, PotSnapshot] = (*PotMachine)(nil)

func (m *PotMachine) Want() sansio.Slot {
	switch m.phase {
	case potPhaseValue:
		return m.valMachine.Want()
	case potPhaseCount:
		return m.cntMachine.Want()
	default:
		return m.entries.Want()
	}
}

func (m *PotMachine) GiveExtra(struct{}) {}

func (m *PotMachine) FinishBytes(n int) {
	switch m.phase {
	case potPhaseValue:
		m.valMachine.FinishBytes(n)
	case potPhaseCount:
		m.cntMachine.FinishBytes(n)
	default:
		m.entries.FinishBytes(n)
	}
}

func (m *PotMachine) Process() (PotSnapshot, bool, error) {
	switch m.phase {
	case potPhaseValue:
		v, done, err := m.valMachine.Process()
		if err != nil {
			return PotSnapshot{}, false, fmt.Errorf("pot: current value: %w", err)
		}
		if !done {
			return PotSnapshot{}, false, nil
		}
		value, err := varint.ToUnsigned[uint32](v)
		if err != nil {
			return PotSnapshot{}, false, fmt.Errorf("pot: current value: %w", err)
		}
		m.value = value
		cm := varint.NewMachine()
		cm.GiveExtra(varint.Unsigned)
		m.cntMachine = cm
		m.phase = potPhaseCount
		return PotSnapshot{}, false, nil
	case potPhaseCount:
		n, done, err := m.cntMachine.Process()
		if err != nil {
			return PotSnapshot{}, false, fmt.Errorf("pot: entry count: %w", err)
		}
		if !done {
			return PotSnapshot{}, false, nil
		}
		count, err := varint.ToUnsigned[uint64](n)
		if err != nil {
			return PotSnapshot{}, false, fmt.Errorf("pot: entry count: %w", err)
		}
		extras := make([]wirecodec.TupleExtra[struct{}, varint.Sign], count)
		for i := range extras {
			extras[i] = wirecodec.TupleExtra[struct{}, varint.Sign]{B: varint.Unsigned}
		}
		m.entries = wirecodec.NewList(newUUIDIntTuple)
		m.entries.GiveExtra(extras)
		m.phase = potPhaseEntries
		return PotSnapshot{}, false, nil
	default:
		pairs, done, err := m.entries.Process()
		if err != nil {
			return PotSnapshot{}, false, fmt.Errorf("pot: entries: %w", err)
		}
		if !done {
			return PotSnapshot{}, false, nil
		}
		ready := make(map[uuid.UUID]uint32, len(pairs))
		for _, p := range pairs {
			amt, err := varint.ToUnsigned[uint32](p.Second)
			if err != nil {
				return PotSnapshot{}, false, fmt.Errorf("pot: entries: %w", err)
			}
			ready[p.First] = amt
		}
		return PotSnapshot{CurrentValue: m.value, ReadyToPutIn: ready}, true, nil
	}
}

// EncodePot appends p's wire encoding: unsigned VLI current value, unsigned
// VLI entry count, then each (Uuid, unsigned VLI amount) pair concatenated.
func EncodePot(into *[]byte, p PotSnapshot) {
	varint.Encode(into, varint.FromUnsigned(p.CurrentValue))
	varint.Encode(into, varint.FromUnsigned(uint64(len(p.ReadyToPutIn))))
	for id, amt := range p.ReadyToPutIn {
		wirecodec.EncodeUUID(into, id)
		varint.Encode(into, varint.FromUnsigned(amt))
	}
}
