package protocol

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func exampleToClientMessages() []ToClientMessage {
	return []ToClientMessage{
		TxtSent(uuid.New(), "argghhhhhhhhh éà"),
		AdminMsg("get den'd ;)"),
		Introduced(uuid.New()),
		PotUpdate(PotSnapshot{
			CurrentValue: 123456789,
			ReadyToPutIn: map[uuid.UUID]uint32{
				uuid.New(): 123,
				uuid.New(): 456,
				uuid.New(): 789,
			},
		}),
		AllPlayersMessage(map[uuid.UUID]Player{
			uuid.New(): {Name: "Alice", Balance: 1},
			uuid.New(): {Name: "François", Balance: 4294967295},
			uuid.New(): {Name: "範例名稱", Balance: 4294967294},
		}),
		SpecificPlayer(uuid.New(), Player{Name: "", Balance: 0}),
	}
}

func decodeAllToClient(t *testing.T, buf []byte) []ToClientMessage {
	t.Helper()
	var found []ToClientMessage
	for len(buf) > 0 {
		msg, n, err := sansio.Drive[struct{}, ToClientMessage](NewToClientFrameMachine(), struct{}{}, buf)
		if err != nil {
			t.Fatalf("Drive: %v", err)
		}
		found = append(found, msg)
		buf = buf[n:]
	}
	return found
}

func TestToClientRoundTripIndividually(t *testing.T) {
	for _, msg := range exampleToClientMessages() {
		var buf []byte
		EncodeToClient(&buf, msg)

		got := decodeAllToClient(t, buf)
		if len(got) != 1 || !reflect.DeepEqual(got[0], msg) {
			t.Fatalf("got %+v, want [%+v]", got, msg)
		}
	}
}

func TestToClientRoundTripMass(t *testing.T) {
	examples := exampleToClientMessages()
	var buf []byte
	for _, msg := range examples {
		EncodeToClient(&buf, msg)
	}

	got := decodeAllToClient(t, buf)
	if len(got) != len(examples) {
		t.Fatalf("got %d messages, want %d", len(got), len(examples))
	}
	for i, msg := range examples {
		if !reflect.DeepEqual(got[i], msg) {
			t.Fatalf("message %d: got %+v, want %+v", i, got[i], msg)
		}
	}
}

func TestToClientInvalidTag(t *testing.T) {
	_, _, err := sansio.Drive[struct{}, ToClientMessage](NewToClientFrameMachine(), struct{}{}, []byte{0xAA})
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != InvalidKind || de.Tag != 0xAA {
		t.Fatalf("err = %v, want InvalidKind(0xAA)", err)
	}
}
