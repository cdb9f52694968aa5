package protocol

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func exampleToServerMessages() []ToServerMessage {
	return []ToServerMessage{
		SendMessage("sup? \U0001F923\U0001F923\U0001F923"),
		Introduction("範例名稱"),
		GetStartInformation(),
		GetSpecificPlayer(uuid.New()),
		AddToPot(4294967295),
	}
}

func decodeAllToServer(t *testing.T, buf []byte) []ToServerMessage {
	t.Helper()
	var found []ToServerMessage
	for len(buf) > 0 {
		msg, n, err := sansio.Drive[struct{}, ToServerMessage](NewToServerFrameMachine(), struct{}{}, buf)
		if err != nil {
			t.Fatalf("Drive: %v", err)
		}
		found = append(found, msg)
		buf = buf[n:]
	}
	return found
}

func TestToServerRoundTripIndividually(t *testing.T) {
	for _, msg := range exampleToServerMessages() {
		var buf []byte
		EncodeToServer(&buf, msg)

		got := decodeAllToServer(t, buf)
		if len(got) != 1 || got[0] != msg {
			t.Fatalf("got %+v, want [%+v]", got, msg)
		}
	}
}

func TestToServerRoundTripMass(t *testing.T) {
	examples := exampleToServerMessages()
	var buf []byte
	for _, msg := range examples {
		EncodeToServer(&buf, msg)
	}

	got := decodeAllToServer(t, buf)
	if len(got) != len(examples) {
		t.Fatalf("got %d messages, want %d", len(got), len(examples))
	}
	for i, msg := range examples {
		if got[i] != msg {
			t.Fatalf("message %d: got %+v, want %+v", i, got[i], msg)
		}
	}
}

func TestToServerInvalidTag(t *testing.T) {
	_, _, err := sansio.Drive[struct{}, ToServerMessage](NewToServerFrameMachine(), struct{}{}, []byte{0xAA})
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != InvalidKind || de.Tag != 0xAA {
		t.Fatalf("err = %v, want InvalidKind(0xAA)", err)
	}
}
