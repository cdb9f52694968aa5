package varint

import "github.com/kstaniek/go-chippy-chat/sansio"

// phase names the named states of the Int deserializer's phase sum type.
type phase int

const (
	phaseStart phase = iota
	phaseGotSign
	phaseGotSignAndFirstByte
	phaseGotLenSomeBytes
	phaseGotAllBytes
	phaseDone
)

// Machine decodes an Int. It requires a Sign as its out-of-band extra
// input before any byte flows: the wire never spells out signedness.
type Machine struct {
	phase phase

	sign      Sign
	firstByte byte
	tailBuf   []byte
	tailSoFar int
}

// NewMachine allocates a fresh, unseeded Int decoder.
func NewMachine() *Machine { return &Machine{phase: phaseStart} }

var _ sansio.Machine[Sign, Int] = (*Machine)(nil)

func (m *Machine) Want() sansio.Slot {
	switch m.phase {
	case phaseStart:
		return sansio.Slot{Kind: sansio.WantExtra}
	case phaseGotSign:
		return sansio.Slot{Kind: sansio.WantByte, Byte: &m.firstByte}
	case phaseGotSignAndFirstByte, phaseGotAllBytes:
		return sansio.Slot{Kind: sansio.WantProcess}
	case phaseGotLenSomeBytes:
		return sansio.Slot{Kind: sansio.WantBytes, Bytes: m.tailBuf[m.tailSoFar:]}
	default:
		panic("varint: machine reused after completion")
	}
}

func (m *Machine) GiveExtra(sign Sign) {
	if m.phase != phaseStart {
		return // per contract: calls outside Extra are silently ignored.
	}
	m.sign = sign
	m.phase = phaseGotSign
}

func (m *Machine) FinishBytes(n int) {
	if n == 0 {
		return // state does not advance on a zero-byte write.
	}
	switch m.phase {
	case phaseGotSign:
		m.phase = phaseGotSignAndFirstByte
	case phaseGotLenSomeBytes:
		m.tailSoFar += n
		if m.tailSoFar == len(m.tailBuf) {
			m.phase = phaseGotAllBytes
		}
	}
}

func (m *Machine) Process() (Int, bool, error) {
	switch m.phase {
	case phaseGotSignAndFirstByte:
		if singleByteEligible(m.sign, m.firstByte) {
			var out Int
			out.sign = m.sign
			out.content[0] = m.firstByte
			if m.sign == SignedNegative || m.firstByte != 0 {
				out.used = 1
			}
			m.phase = phaseDone
			return out, true, nil
		}
		k := trailingCount(m.sign, m.firstByte)
		m.tailBuf = make([]byte, k)
		m.tailSoFar = 0
		m.phase = phaseGotLenSomeBytes
		return Int{}, false, nil
	case phaseGotAllBytes:
		var out Int
		out.sign = m.sign
		copy(out.content[:], m.tailBuf)
		out.used = len(m.tailBuf)
		m.phase = phaseDone
		return out, true, nil
	default:
		// Waiting states: process is a no-op continuation.
		return Int{}, false, nil
	}
}

// Encode appends v's wire encoding to *into and returns the Sign the
// decoder must be seeded with to read it back. Encoding is infallible and
// total.
func Encode(into *[]byte, v Int) Sign {
	if v.used <= 1 && singleByteEligible(v.sign, v.content[0]) {
		*into = append(*into, v.content[0])
		return v.sign
	}
	*into = append(*into, headerByte(v.sign, v.used))
	if v.used != 0 {
		*into = append(*into, v.content[:v.used]...)
	}
	return v.sign
}

// singleByteEligible reports whether b can stand alone as a complete value
// under sign, with no header byte. Unsigned and non-negative magnitudes take
// the low range [0, SingleByteMax]; a SignedNegative magnitude's one
// significant byte runs the other way, counting down from 0xFF at -1, so it
// takes the complementary high range [MaxBytes, 0xFF] instead — which frees
// the low MaxBytes values as the header zone for negative multi-byte values.
func singleByteEligible(sign Sign, b byte) bool {
	if sign == SignedNegative {
		return b >= MaxBytes
	}
	return b <= SingleByteMax
}

// headerByte computes the control byte announcing a multi-byte (used
// significant bytes) encoding, using whichever zone singleByteEligible left
// free for sign.
func headerByte(sign Sign, used int) byte {
	if sign == SignedNegative {
		return byte(MaxBytes - used)
	}
	return byte(SingleByteMax) + byte(used)
}

// trailingCount inverts headerByte: given a first byte already identified as
// a header (singleByteEligible returned false), it returns how many more
// bytes to read.
func trailingCount(sign Sign, first byte) int {
	if sign == SignedNegative {
		return int(MaxBytes) - int(first)
	}
	return int(first) - SingleByteMax
}
