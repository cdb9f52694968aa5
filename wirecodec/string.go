package wirecodec

import (
	"unicode/utf8"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

// StringErrorKind distinguishes why a String failed to decode.
type StringErrorKind int

const (
	// StringErrLen: the length prefix itself did not decode.
	StringErrLen StringErrorKind = iota
	// StringErrTooLong: the length prefix is above 1<<32 bytes.
	StringErrTooLong
	// StringErrNotUTF8: the length prefix decoded fine but the following
	// bytes are not valid UTF-8.
	StringErrNotUTF8
)

type StringError struct {
	Kind  StringErrorKind
	Inner error
}

func (e *StringError) Error() string {
	switch e.Kind {
	case StringErrLen:
		return "wirecodec: string length: " + e.Inner.Error()
	case StringErrTooLong:
		return "wirecodec: string length too large to buffer"
	case StringErrNotUTF8:
		return "wirecodec: string content is not valid UTF-8"
	default:
		return "wirecodec: string error"
	}
}

func (e *StringError) Unwrap() error { return e.Inner }

// StringMachine decodes a length-prefixed UTF-8 string: an unsigned VLI byte
// count followed by that many content bytes. The length sign is always
// Unsigned, so it is seeded internally rather than requested as Extra.
type StringMachine struct {
	lenMachine *varint.Machine
	gotLen     bool

	buf  []byte
	have int
}

func NewStringMachine() sansio.Machine[struct{}, string] {
	lm := varint.NewMachine()
	lm.GiveExtra(varint.Unsigned)
	return &StringMachine{lenMachine: lm}
}

var _ sansio.Machine[struct{}, string] = (*StringMachine)(nil)

func (m *StringMachine) Want() sansio.Slot {
	if !m.gotLen {
		return m.lenMachine.Want()
	}
	if m.have == len(m.buf) {
		return sansio.Slot{Kind: sansio.WantProcess}
	}
	return sansio.Slot{Kind: sansio.WantBytes, Bytes: m.buf[m.have:]}
}

func (m *StringMachine) GiveExtra(struct{}) {}

func (m *StringMachine) FinishBytes(n int) {
	if !m.gotLen {
		m.lenMachine.FinishBytes(n)
		return
	}
	m.have += n
}

func (m *StringMachine) Process() (string, bool, error) {
	if !m.gotLen {
		n, done, err := m.lenMachine.Process()
		if err != nil {
			return "", false, &StringError{Kind: StringErrLen, Inner: err}
		}
		if !done {
			return "", false, nil
		}
		length, err := varint.ToUnsigned[uint64](n)
		if err != nil {
			return "", false, &StringError{Kind: StringErrLen, Inner: err}
		}
		if length > (1 << 32) {
			return "", false, &StringError{Kind: StringErrTooLong}
		}
		m.gotLen = true
		m.buf = make([]byte, length)
		return "", false, nil
	}
	if m.have < len(m.buf) {
		return "", false, nil
	}
	if !utf8.Valid(m.buf) {
		return "", false, &StringError{Kind: StringErrNotUTF8}
	}
	return string(m.buf), true, nil
}

// EncodeString appends s's wire encoding (unsigned VLI length, then raw
// bytes) to *into.
func EncodeString(into *[]byte, s string) {
	varint.Encode(into, varint.FromUnsigned(uint64(len(s))))
	*into = append(*into, s...)
}
