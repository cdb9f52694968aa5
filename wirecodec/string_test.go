package wirecodec

import (
	"errors"
	"strings"
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "hi", "the pot grows", strings.Repeat("x", 300)}
	for _, want := range cases {
		var buf []byte
		EncodeString(&buf, want)

		got, n, err := sansio.Drive[struct{}, string](NewStringMachine(), struct{}{}, buf)
		if err != nil {
			t.Fatalf("Drive(%q): %v", want, err)
		}
		if n != len(buf) {
			t.Fatalf("consumed = %d, want %d", n, len(buf))
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	var buf []byte
	EncodeString(&buf, "ok")
	buf[len(buf)-1] = 0xFF // corrupt the last content byte into an invalid lead byte

	_, _, err := sansio.Drive[struct{}, string](NewStringMachine(), struct{}{}, buf)
	var se *StringError
	if !errors.As(err, &se) || se.Kind != StringErrNotUTF8 {
		t.Fatalf("err = %v, want StringErrNotUTF8", err)
	}
}
