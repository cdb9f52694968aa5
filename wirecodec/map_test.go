package wirecodec

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func newUUIDMachine() sansio.Machine[struct{}, uuid.UUID] { return NewUUIDMachine() }

func TestMapRoundTrip(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	vals := map[uuid.UUID]string{id1: "alice", id2: "bob"}

	var buf []byte
	EncodeMap(&buf, vals, EncodeUUID, EncodeString)

	extras := make([]TupleExtra[struct{}, struct{}], len(vals))

	m := NewMap(newUUIDMachine, newStringMachine)
	got, n, err := sansio.Drive(m, extras, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if len(got) != len(vals) {
		t.Fatalf("got %v, want %v", got, vals)
	}
	for k, v := range vals {
		if got[k] != v {
			t.Fatalf("got[%v] = %q, want %q", k, got[k], v)
		}
	}
}

func TestMapLastWriterWins(t *testing.T) {
	id := uuid.New()

	var buf []byte
	EncodeUUID(&buf, id)
	EncodeString(&buf, "first")
	EncodeUUID(&buf, id)
	EncodeString(&buf, "second")

	extras := make([]TupleExtra[struct{}, struct{}], 2)
	m := NewMap(newUUIDMachine, newStringMachine)
	got, _, err := sansio.Drive(m, extras, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if len(got) != 1 || got[id] != "second" {
		t.Fatalf("got %v, want {%v: second}", got, id)
	}
}

func TestBasicMapRoundTrip(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	vals := map[uuid.UUID]string{id1: "alice", id2: "bob"}

	var buf []byte
	EncodeBasicMap(&buf, vals, EncodeUUID, EncodeString)

	m := NewBasicMap(newUUIDMachine, newStringMachine)
	got, n, err := sansio.Drive[struct{}, map[uuid.UUID]string](m, struct{}{}, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	for k, v := range vals {
		if got[k] != v {
			t.Fatalf("got[%v] = %q, want %q", k, got[k], v)
		}
	}
}

func TestBasicMapEmpty(t *testing.T) {
	var buf []byte
	EncodeBasicMap(&buf, map[uuid.UUID]string(nil), EncodeUUID, EncodeString)

	m := NewBasicMap(newUUIDMachine, newStringMachine)
	got, _, err := sansio.Drive[struct{}, map[uuid.UUID]string](m, struct{}{}, buf)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
