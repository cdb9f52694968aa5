package varint

import (
	"math/big"
	"testing"
)

func TestEqualAcrossSignDiscipline(t *testing.T) {
	if !FromUnsigned(uint32(0)).Equal(FromSigned(int32(0))) {
		t.Fatal("Unsigned 0 should equal SignedPositive 0")
	}
	neg := FromSigned(int32(-1))
	if neg.Equal(FromUnsigned(uint32(0xFF))) {
		t.Fatal("SignedNegative must never equal a non-negative Int")
	}
}

func TestBigIntRoundTrip(t *testing.T) {
	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(-1),
		big.NewInt(239),
		big.NewInt(240),
		new(big.Int).Lsh(big.NewInt(1), 100),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100)),
	}
	for _, n := range cases {
		v, err := FromBigInt(n)
		if err != nil {
			t.Fatalf("FromBigInt(%v): %v", n, err)
		}
		back := v.ToBigInt()
		if back.Cmp(n) != 0 {
			t.Fatalf("round trip %v -> %v", n, back)
		}
	}
}

func TestBigIntTooBigToFit(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	if _, err := FromBigInt(huge); err == nil {
		t.Fatal("expected TooBigToFit for a 200-bit magnitude")
	}
}

// An empty list or map is just its unsigned length prefix 0 on the wire, so
// this is also their whole encoding.
func TestZeroLengthPrefixEncodesToSingleZeroByte(t *testing.T) {
	var buf []byte
	Encode(&buf, FromUnsigned(uint64(0)))
	if len(buf) != 1 || buf[0] != 0x00 {
		t.Fatalf("encode(0) = % x, want [0x00]", buf)
	}
}
