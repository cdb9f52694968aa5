package protocol

import (
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func TestPlayerRoundTrip(t *testing.T) {
	cases := []Player{
		{Name: "Alice", Balance: 1},
		{Name: "François", Balance: 4294967295},
		{Name: "", Balance: 0},
	}
	for _, want := range cases {
		var buf []byte
		EncodePlayer(&buf, want)

		got, n, err := sansio.Drive[struct{}, Player](NewPlayerMachine(), struct{}{}, buf)
		if err != nil {
			t.Fatalf("Drive(%+v): %v", want, err)
		}
		if n != len(buf) {
			t.Fatalf("consumed = %d, want %d", n, len(buf))
		}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}
