package wirecodec

import (
	"errors"
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

func newIntMachine() sansio.Machine[varint.Sign, varint.Int] { return varint.NewMachine() }

func TestTupleRoundTrip(t *testing.T) {
	var buf []byte
	varint.Encode(&buf, varint.FromUnsigned(uint64(7)))
	varint.Encode(&buf, varint.FromUnsigned(uint64(900)))

	m := NewTuple(newIntMachine, newIntMachine)
	extra := TupleExtra[varint.Sign, varint.Sign]{A: varint.Unsigned, B: varint.Unsigned}
	got, n, err := sansio.Drive(m, extra, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}

	first, err := varint.ToUnsigned[uint64](got.First)
	if err != nil || first != 7 {
		t.Fatalf("First = %v, %v, want 7", first, err)
	}
	second, err := varint.ToUnsigned[uint64](got.Second)
	if err != nil || second != 900 {
		t.Fatalf("Second = %v, %v, want 900", second, err)
	}
}

func newStringMachine() sansio.Machine[struct{}, string] { return NewStringMachine() }

func TestTupleBSideErrorTagged(t *testing.T) {
	var buf []byte
	varint.Encode(&buf, varint.FromUnsigned(uint64(3))) // A: a valid Int
	EncodeString(&buf, "ok")
	buf[len(buf)-1] = 0xFF // corrupt B's content byte into invalid UTF-8

	m := NewTuple(newIntMachine, newStringMachine)
	extra := TupleExtra[varint.Sign, struct{}]{A: varint.Unsigned, B: struct{}{}}
	_, _, err := sansio.Drive(m, extra, buf)

	var te *TupleError
	if !errors.As(err, &te) || te.Side != SideB {
		t.Fatalf("err = %v, want TupleError on SideB", err)
	}
	var se *StringError
	if !errors.As(err, &se) || se.Kind != StringErrNotUTF8 {
		t.Fatalf("inner = %v, want StringErrNotUTF8", err)
	}
}
