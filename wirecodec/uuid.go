package wirecodec

import (
	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

// UUIDMachine decodes the 16 raw bytes of an RFC 4122 UUID. It never fails:
// any 16 bytes are a valid uuid.UUID.
type UUIDMachine struct {
	content [16]byte
	filled  int
	done    bool
}

func NewUUIDMachine() sansio.Machine[struct{}, uuid.UUID] { return &UUIDMachine{} }

var _ sansio.Machine[struct{}, uuid.UUID] = (*UUIDMachine)(nil)

func (m *UUIDMachine) Want() sansio.Slot {
	if m.filled == 16 {
		return sansio.Slot{Kind: sansio.WantProcess}
	}
	return sansio.Slot{Kind: sansio.WantBytes, Bytes: m.content[m.filled:]}
}

func (m *UUIDMachine) GiveExtra(struct{}) {}

func (m *UUIDMachine) FinishBytes(n int) { m.filled += n }

func (m *UUIDMachine) Process() (uuid.UUID, bool, error) {
	if m.done {
		panic("wirecodec: UUIDMachine reused after completion")
	}
	if m.filled < 16 {
		return uuid.UUID{}, false, nil
	}
	m.done = true
	return uuid.UUID(m.content), true, nil
}

// EncodeUUID appends id's 16 raw bytes to *into.
func EncodeUUID(into *[]byte, id uuid.UUID) {
	*into = append(*into, id[:]...)
}
