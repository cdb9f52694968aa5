// Package sansio defines the pull-driven deserializer contract shared by
// every codec in this module. A Machine never touches a socket, a stream or
// a timer: it is handed bytes (or an out-of-band "extra" value) by an
// external driver loop and reports back either a completed value or a
// request for more input.
package sansio

// Want is what a Machine needs before it can make progress.
type Want int

const (
	// WantByte means the driver must write exactly one byte into Slot.Byte.
	WantByte Want = iota
	// WantBytes means the driver may write 1..len(Slot.Bytes) bytes into
	// Slot.Bytes, front to back.
	WantBytes
	// WantExtra means the machine is blocked until GiveExtra is called.
	WantExtra
	// WantProcess means no input is needed; call Process.
	WantProcess
)

// Slot describes the buffer a WantByte/WantBytes request expects the driver
// to fill. Byte and Bytes are nil unless their matching Kind is set.
type Slot struct {
	Kind  Want
	Byte  *byte
	Bytes []byte
}

// Machine is one phase-carrying deserializer producing a T, fed an E before
// any byte flows (E may be struct{} when nothing is needed out of band).
//
// Contract the driver must observe, each cycle:
//  1. call Want().
//  2. if WantExtra, call GiveExtra and restart.
//  3. if WantByte/WantBytes, write bytes, then call FinishBytes(n) with the
//     exact count written. n == 0 must not advance the phase.
//  4. if WantProcess, or right after a byte write, call Process().
//
// A Machine is single-shot: once Process returns done=true (or an error) it
// must be discarded. Calling any method afterwards is a programmer error;
// implementations may panic rather than silently misbehave.
type Machine[E, T any] interface {
	Want() Slot
	GiveExtra(extra E)
	FinishBytes(n int)
	// Process advances the phase. done reports whether out holds the
	// completed value; a non-nil error means the stream must be discarded.
	Process() (out T, done bool, err error)
}

// NewMachine is implemented by every concrete machine type so generic
// composites (Tuple, List, Map, ...) can allocate a fresh sub-machine
// without the caller naming its concrete type.
type NewMachine[E, T any] func() Machine[E, T]

// NewMachineWithExtra allocates a Machine and immediately feeds it extra.
func NewMachineWithExtra[E, T any](new NewMachine[E, T], extra E) Machine[E, T] {
	m := new()
	m.GiveExtra(extra)
	return m
}

// Drive runs want/finish/process against an in-memory byte slice, with no
// socket involved. It is the single helper tests and callers use to parse a
// complete value from a []byte without hand-rolling the byte-feeding loop.
// It returns the number of input bytes consumed.
func Drive[E, T any](m Machine[E, T], extra E, data []byte) (T, int, error) {
	var zero T
	consumed := 0
	gaveExtra := false
	for {
		slot := m.Want()
		switch slot.Kind {
		case WantExtra:
			if gaveExtra {
				// Contract violation by the machine: Extra asked for twice.
				// give_extra is documented to be a silent no-op outside
				// Start, so just re-deliver and let the machine ignore it.
			}
			m.GiveExtra(extra)
			gaveExtra = true
		case WantByte:
			if consumed >= len(data) {
				return zero, consumed, ErrNotEnoughBytes
			}
			*slot.Byte = data[consumed]
			consumed++
			m.FinishBytes(1)
			// Contract step 4: Process right after a byte write.
			out, done, err := m.Process()
			if err != nil {
				return zero, consumed, err
			}
			if done {
				return out, consumed, nil
			}
		case WantBytes:
			if consumed >= len(data) {
				return zero, consumed, ErrNotEnoughBytes
			}
			n := copy(slot.Bytes, data[consumed:])
			consumed += n
			m.FinishBytes(n)
			fallthrough
		case WantProcess:
			out, done, err := m.Process()
			if err != nil {
				return zero, consumed, err
			}
			if done {
				return out, consumed, nil
			}
		}
	}
}
