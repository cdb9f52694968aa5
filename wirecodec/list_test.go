package wirecodec

import (
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

func TestListRoundTrip(t *testing.T) {
	vals := []varint.Int{
		varint.FromUnsigned(uint64(1)),
		varint.FromUnsigned(uint64(240)),
		varint.FromUnsigned(uint64(99999)),
	}

	var buf []byte
	EncodeList(&buf, vals, func(into *[]byte, v varint.Int) { varint.Encode(into, v) })

	extras := make([]varint.Sign, len(vals))
	for i := range extras {
		extras[i] = varint.Unsigned
	}

	m := NewList(newIntMachine)
	got, n, err := sansio.Drive(m, extras, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if len(got) != len(vals) {
		t.Fatalf("got %d elements, want %d", len(got), len(vals))
	}
	for i, v := range got {
		u, _ := varint.ToUnsigned[uint64](v)
		want, _ := varint.ToUnsigned[uint64](vals[i])
		if u != want {
			t.Fatalf("element %d = %d, want %d", i, u, want)
		}
	}
}

func TestListEmpty(t *testing.T) {
	m := NewList(newIntMachine)
	got, n, err := sansio.Drive[[]varint.Sign, []varint.Int](m, nil, nil)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != 0 || len(got) != 0 {
		t.Fatalf("got %v, %d bytes consumed, want empty/0", got, n)
	}
}

func TestBasicListRoundTrip(t *testing.T) {
	vals := []string{"alpha", "beta", "gamma"}

	var buf []byte
	EncodeBasicList(&buf, vals, EncodeString)

	m := NewBasicList(newStringMachine)
	got, n, err := sansio.Drive[struct{}, []string](m, struct{}{}, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if len(got) != len(vals) {
		t.Fatalf("got %v, want %v", got, vals)
	}
	for i, v := range got {
		if v != vals[i] {
			t.Fatalf("element %d = %q, want %q", i, v, vals[i])
		}
	}
}

func TestBasicListEmpty(t *testing.T) {
	var buf []byte
	EncodeBasicList(&buf, []string(nil), EncodeString)

	m := NewBasicList(newStringMachine)
	got, _, err := sansio.Drive[struct{}, []string](m, struct{}{}, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
