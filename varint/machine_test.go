package varint

import (
	"errors"
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
)

func driveInt(t *testing.T, sign Sign, data []byte) (Int, int, error) {
	t.Helper()
	return sansio.Drive[Sign, Int](NewMachine(), sign, data)
}

func TestUnsignedSmall(t *testing.T) {
	v := FromUnsigned(uint32(7))
	var buf []byte
	sign := Encode(&buf, v)
	if sign != Unsigned {
		t.Fatalf("sign = %v, want Unsigned", sign)
	}
	if want := []byte{0x07}; !bytesEqual(buf, want) {
		t.Fatalf("encode(7) = % x, want % x", buf, want)
	}
	got, n, err := driveInt(t, sign, buf)
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	want, err := ToUnsigned[uint32](got)
	if err != nil || want != 7 {
		t.Fatalf("round trip = %d, %v, want 7, nil", want, err)
	}
}

func TestUnsignedBoundary(t *testing.T) {
	cases := []struct {
		n    uint32
		want []byte
	}{
		{239, []byte{0xEF}},
		{240, []byte{0xF0, 0xF0}},
	}
	for _, c := range cases {
		var buf []byte
		Encode(&buf, FromUnsigned(c.n))
		if !bytesEqual(buf, c.want) {
			t.Errorf("encode(%d) = % x, want % x", c.n, buf, c.want)
		}
	}
}

func TestUnsignedWide(t *testing.T) {
	var buf []byte
	Encode(&buf, FromUnsigned(uint32(0x01020304)))
	want := []byte{0xF3, 0x04, 0x03, 0x02, 0x01}
	if !bytesEqual(buf, want) {
		t.Fatalf("encode(0x01020304) = % x, want % x", buf, want)
	}
}

func TestSignedMinusOne(t *testing.T) {
	v := FromSigned(int32(-1))
	var buf []byte
	sign := Encode(&buf, v)
	if sign != SignedNegative {
		t.Fatalf("sign = %v, want SignedNegative", sign)
	}
	if want := []byte{0xFF}; !bytesEqual(buf, want) {
		t.Fatalf("encode(-1) = % x, want % x", buf, want)
	}
	got, _, err := driveInt(t, SignedNegative, []byte{0xFF})
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	n, err := ToSigned[int32](got)
	if err != nil || n != -1 {
		t.Fatalf("round trip = %d, %v, want -1, nil", n, err)
	}
}

func TestSmallNegativesEncodeSingleByte(t *testing.T) {
	for n := int64(-1); n >= -16; n-- {
		var buf []byte
		sign := Encode(&buf, FromSigned(n))
		if sign != SignedNegative {
			t.Fatalf("encode(%d): sign = %v, want SignedNegative", n, sign)
		}
		if len(buf) != 1 {
			t.Fatalf("encode(%d) = % x, want exactly one byte", n, buf)
		}
		got, consumed, err := driveInt(t, sign, buf)
		if err != nil {
			t.Fatalf("drive(%d): %v", n, err)
		}
		if consumed != 1 {
			t.Fatalf("drive(%d) consumed %d bytes, want 1", n, consumed)
		}
		back, err := ToSigned[int64](got)
		if err != nil || back != n {
			t.Fatalf("round trip %d -> % x -> %d, %v", n, buf, back, err)
		}
	}
}

func TestNegativeHeaderZoneRoundTrip(t *testing.T) {
	// Values whose one significant byte would collide with the header zone
	// (-241 through -256) fall back to a header-prefixed encoding; they must
	// still round trip correctly even though they cost an extra byte.
	cases := []int64{-241, -250, -256, -1000000}
	for _, n := range cases {
		var buf []byte
		sign := Encode(&buf, FromSigned(n))
		got, _, err := driveInt(t, sign, buf)
		if err != nil {
			t.Fatalf("drive(%d): %v", n, err)
		}
		back, err := ToSigned[int64](got)
		if err != nil || back != n {
			t.Fatalf("round trip %d -> % x -> %d, %v", n, buf, back, err)
		}
	}
}

func TestSignedZero(t *testing.T) {
	var buf []byte
	Encode(&buf, FromSigned(int32(0)))
	if want := []byte{0x00}; !bytesEqual(buf, want) {
		t.Fatalf("encode(0) = % x, want % x", buf, want)
	}
}

func TestRoundTripSignedValues(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -128, 239, 240, -240, 1 << 20, -(1 << 20)}
	for _, n := range cases {
		v := FromSigned(n)
		var buf []byte
		sign := Encode(&buf, v)
		got, _, err := driveInt(t, sign, buf)
		if err != nil {
			t.Fatalf("drive(%d): %v", n, err)
		}
		back, err := ToSigned[int64](got)
		if err != nil {
			t.Fatalf("ToSigned(%d): %v", n, err)
		}
		if back != n {
			t.Fatalf("round trip %d -> % x -> %d", n, buf, back)
		}
	}
}

func TestRoundTripUnsignedValues(t *testing.T) {
	cases := []uint64{0, 1, 239, 240, 65535, 1 << 32, ^uint64(0)}
	for _, n := range cases {
		v := FromUnsigned(n)
		var buf []byte
		Encode(&buf, v)
		got, _, err := driveInt(t, Unsigned, buf)
		if err != nil {
			t.Fatalf("drive(%d): %v", n, err)
		}
		back, err := ToUnsigned[uint64](got)
		if err != nil {
			t.Fatalf("ToUnsigned(%d): %v", n, err)
		}
		if back != n {
			t.Fatalf("round trip %d -> % x -> %d", n, buf, back)
		}
	}
}

func TestDecodeStreamTwoValues(t *testing.T) {
	var buf []byte
	Encode(&buf, FromUnsigned(uint32(7)))
	secondStart := len(buf)
	Encode(&buf, FromUnsigned(uint32(1000)))

	first, n1, err := driveInt(t, Unsigned, buf)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if n1 != secondStart {
		t.Fatalf("consumed %d for first value, want %d", n1, secondStart)
	}
	second, n2, err := driveInt(t, Unsigned, buf[n1:])
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if n1+n2 != len(buf) {
		t.Fatalf("total consumed %d, want %d", n1+n2, len(buf))
	}
	a, _ := ToUnsigned[uint32](first)
	b, _ := ToUnsigned[uint32](second)
	if a != 7 || b != 1000 {
		t.Fatalf("got %d, %d, want 7, 1000", a, b)
	}
}

func TestToUnsignedRejectsNegative(t *testing.T) {
	v := FromSigned(int32(-5))
	_, err := ToUnsigned[uint32](v)
	var re *ReadError
	if !errors.As(err, &re) || re.Kind != SignError {
		t.Fatalf("err = %v, want SignError", err)
	}
}

func TestToUnsignedRejectsTooBig(t *testing.T) {
	v := FromUnsigned(uint64(1) << 40)
	_, err := ToUnsigned[uint32](v)
	var re *ReadError
	if !errors.As(err, &re) || re.Kind != TooBigToFit {
		t.Fatalf("err = %v, want TooBigToFit", err)
	}
}

func TestZeroByteFinishDoesNotAdvance(t *testing.T) {
	m := NewMachine()
	m.GiveExtra(Unsigned)
	slot := m.Want()
	if slot.Kind != sansio.WantByte {
		t.Fatalf("want = %v, want WantByte", slot.Kind)
	}
	m.FinishBytes(0)
	if m.phase != phaseGotSign {
		t.Fatalf("phase advanced on a zero-byte finish")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
