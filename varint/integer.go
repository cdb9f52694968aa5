// Package varint implements the variable-length integer (VLI) wire format:
// small magnitudes in one byte, larger ones in a length-prefixed trailer of
// little-endian significant bytes. Sign is never carried on the wire; it
// travels out of band as the sansio "extra" input/output.
package varint

import (
	"fmt"
	"math/big"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Sign records whether an Int's stored magnitude should be read back as an
// unsigned value, a non-negative signed value, or a negative signed value.
// It is decoding metadata only: the bytes on the wire never spell it out.
type Sign int

const (
	Unsigned Sign = iota
	SignedPositive
	SignedNegative
)

func (s Sign) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case SignedPositive:
		return "signed-positive"
	case SignedNegative:
		return "signed-negative"
	default:
		return fmt.Sprintf("sign(%d)", int(s))
	}
}

// MaxBytes is the byte capacity of the largest supported integer (128 bits).
const MaxBytes = 16

// SingleByteMax is the reserved byte boundary for unsigned and non-negative
// magnitudes: values at or below this fit in a single wire byte with no
// header. A SignedNegative magnitude's single byte runs the other way round
// (it is the low byte of a two's-complement value, counting down from 0xFF
// at -1), so its header boundary mirrors this one from the top of the byte
// range instead — see singleByteEligible in machine.go.
const SingleByteMax = 0xFF - MaxBytes // 239

// Int is a value in [-2^127, 2^128-1] paired with a Sign discipline. The
// magnitude is stored as a fixed 16-byte little-endian buffer plus a
// used-length, keeping encode/decode branch-free at the byte boundary.
type Int struct {
	sign    Sign
	content [MaxBytes]byte
	used    int
}

// Sign reports the stored sign discipline.
func (i Int) Sign() Sign { return i.sign }

// IsNegative reports whether i carries the canonical negative discipline.
func (i Int) IsNegative() bool { return i.sign == SignedNegative }

// IsPositive reports the opposite of IsNegative.
func (i Int) IsPositive() bool { return i.sign != SignedNegative }

// Equal implements the spec's numeric equality: two Ints compare equal iff
// their conceptual value matches, so Unsigned 0 == SignedPositive 0, while
// SignedNegative only equals another SignedNegative.
func (a Int) Equal(b Int) bool {
	if a.used != b.used {
		return false
	}
	for i := 0; i < a.used; i++ {
		if a.content[i] != b.content[i] {
			return false
		}
	}
	if a.sign == SignedNegative || b.sign == SignedNegative {
		return a.sign == SignedNegative && b.sign == SignedNegative
	}
	return true
}

// Zero is the canonical representation of the value 0.
var Zero = Int{sign: SignedPositive}

// FromUnsigned builds an Int from any unsigned machine integer.
func FromUnsigned[T constraints.Unsigned](n T) Int {
	width := widthOf(n)
	var out Int
	out.sign = Unsigned
	lastNonZero := -1
	for i := 0; i < width; i++ {
		b := byte(n)
		out.content[i] = b
		n >>= 8
		if b != 0 {
			lastNonZero = i
		}
	}
	out.used = lastNonZero + 1
	return out
}

// FromSigned builds an Int from any signed machine integer.
func FromSigned[T constraints.Signed](n T) Int {
	var out Int
	switch {
	case n == 0:
		out.sign = SignedPositive
		out.used = 0
	case n == -1:
		out.sign = SignedNegative
		for i := range out.content {
			out.content[i] = 0xFF
		}
		out.used = 1
	case n < 0:
		out.sign = SignedNegative
		for i := range out.content {
			out.content[i] = 0xFF
		}
		width := widthOf(n)
		lastNonFF := 0
		for i := 0; i < width; i++ {
			b := byte(n)
			out.content[i] = b
			n >>= 8
			if b != 0xFF {
				lastNonFF = i + 1
			}
		}
		out.used = lastNonFF
	default:
		out.sign = SignedPositive
		width := widthOf(n)
		lastNonZero := 0
		for i := 0; i < width; i++ {
			b := byte(n)
			out.content[i] = b
			n >>= 8
			if b != 0 {
				lastNonZero = i + 1
			}
		}
		out.used = lastNonZero
	}
	return out
}

// widthOf returns the byte width of T via its zero value; unsafe.Sizeof
// needs no reflection, so this never reflects at runtime.
func widthOf[T constraints.Integer](z T) int {
	return int(unsafe.Sizeof(z))
}

// ReadError classifies a failure converting a decoded Int back into a fixed
// width Go integer, or a failure reconstructing an Int while decoding.
type ReadError struct {
	Kind ReadErrorKind
}

type ReadErrorKind int

const (
	// TooBigToFit: the stored byte count exceeds the destination width.
	TooBigToFit ReadErrorKind = iota
	// SignError: a SignedNegative value was requested as an unsigned target.
	SignError
)

func (e *ReadError) Error() string {
	switch e.Kind {
	case TooBigToFit:
		return "varint: value too large to fit destination width"
	case SignError:
		return "varint: negative value requested as unsigned"
	default:
		return "varint: read error"
	}
}

// ToUnsigned converts i to an unsigned machine integer, failing with
// TooBigToFit or SignError as appropriate.
func ToUnsigned[T constraints.Unsigned](i Int) (T, error) {
	var zero T
	width := widthOf(zero)
	if i.used > width {
		return zero, &ReadError{Kind: TooBigToFit}
	}
	if i.sign == SignedNegative {
		return zero, &ReadError{Kind: SignError}
	}
	var out T
	for idx := i.used - 1; idx >= 0; idx-- {
		out <<= 8
		out |= T(i.content[idx])
	}
	return out, nil
}

// ToSigned converts i to a signed machine integer, failing with
// TooBigToFit if the stored byte count exceeds the destination width.
func ToSigned[T constraints.Signed](i Int) (T, error) {
	var zero T
	width := widthOf(zero)
	if i.used > width {
		return zero, &ReadError{Kind: TooBigToFit}
	}
	fill := byte(0)
	if i.sign == SignedNegative {
		fill = 0xFF
	}
	buf := make([]byte, width)
	for idx := range buf {
		buf[idx] = fill
	}
	copy(buf, i.content[:i.used])
	var out T
	for idx := width - 1; idx >= 0; idx-- {
		out <<= 8
		out |= T(buf[idx])
	}
	return out, nil
}

// ToBigInt converts i to an arbitrary-precision integer (for the full
// 128-bit range Go has no native machine type for).
func (i Int) ToBigInt() *big.Int {
	mag := new(big.Int)
	for idx := i.used - 1; idx >= 0; idx-- {
		mag.Lsh(mag, 8)
		mag.Or(mag, big.NewInt(int64(i.content[idx])))
	}
	if i.sign != SignedNegative {
		return mag
	}
	// Two's-complement: subtract 2^(8*used) from the unsigned magnitude.
	if i.used == 0 {
		return mag
	}
	full := new(big.Int).Lsh(big.NewInt(1), uint(8*i.used))
	return mag.Sub(mag, full)
}

// FromBigInt builds an Int from an arbitrary-precision integer, failing with
// TooBigToFit if it lies outside [-2^127, 2^128-1].
func FromBigInt(n *big.Int) (Int, error) {
	var out Int
	if n.Sign() == 0 {
		out.sign = SignedPositive
		return out, nil
	}
	if n.Sign() > 0 {
		bytes := n.Bytes() // big-endian
		if len(bytes) > MaxBytes {
			return Int{}, &ReadError{Kind: TooBigToFit}
		}
		out.sign = SignedPositive
		last := 0
		for idx, b := range bytes {
			pos := len(bytes) - 1 - idx
			out.content[pos] = b
			if b != 0 {
				last = pos + 1
			}
		}
		out.used = last
		return out, nil
	}
	// Negative: two's-complement representation.
	abs := new(big.Int).Neg(n)
	if abs.Cmp(new(big.Int).Lsh(big.NewInt(1), 8*MaxBytes-1)) > 0 {
		return Int{}, &ReadError{Kind: TooBigToFit}
	}
	full := new(big.Int).Lsh(big.NewInt(1), 8*MaxBytes)
	twos := full.Sub(full, abs)
	bytes := twos.Bytes()
	var content [MaxBytes]byte
	for idx, b := range bytes {
		pos := len(bytes) - 1 - idx
		if pos < MaxBytes {
			content[pos] = b
		}
	}
	last := 0
	for idx := MaxBytes - 1; idx >= 0; idx-- {
		if content[idx] != 0xFF {
			last = idx + 1
			break
		}
	}
	if last == 0 {
		last = 1 // -1 trims to a single 0xFF byte.
	}
	out.sign = SignedNegative
	out.content = content
	out.used = last
	return out, nil
}
