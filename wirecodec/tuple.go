package wirecodec

import "github.com/kstaniek/go-chippy-chat/sansio"

// Pair is the decoded value of a Tuple(A,B): two concatenated wire values.
type Pair[A, B any] struct {
	First  A
	Second B
}

// TupleExtra carries the two out-of-band extras a Tuple's sub-machines need,
// in sequencing order: A's extra is consumed first, B's only once A is done.
type TupleExtra[EA, EB any] struct {
	A EA
	B EB
}

type tuplePhase int

const (
	tuplePhaseA tuplePhase = iota
	tuplePhaseB
	tuplePhaseDone
)

// Tuple decodes a Pair[A,B] by running an A-machine to completion, then a
// B-machine, concatenating their wire representations with no separator.
type Tuple[EA, EB, A, B any] struct {
	newA sansio.NewMachine[EA, A]
	newB sansio.NewMachine[EB, B]

	phase tuplePhase

	a      A
	bExtra EB
	haveB  bool
	machA  sansio.Machine[EA, A]
	machB  sansio.Machine[EB, B]
}

func NewTuple[EA, EB, A, B any](newA sansio.NewMachine[EA, A], newB sansio.NewMachine[EB, B]) sansio.Machine[TupleExtra[EA, EB], Pair[A, B]] {
	return &Tuple[EA, EB, A, B]{
		newA:  newA,
		newB:  newB,
		phase: tuplePhaseA,
		machA: newA(),
	}
}

var _ sansio.Machine[TupleExtra[int, int], Pair[int, int]] = (*Tuple[int, int, int, int])(nil)

func (t *Tuple[EA, EB, A, B]) Want() sansio.Slot {
	switch t.phase {
	case tuplePhaseA:
		return t.machA.Want()
	case tuplePhaseB:
		return t.machB.Want()
	default:
		return sansio.Slot{Kind: sansio.WantProcess}
	}
}

func (t *Tuple[EA, EB, A, B]) GiveExtra(extra TupleExtra[EA, EB]) {
	switch t.phase {
	case tuplePhaseA:
		t.machA.GiveExtra(extra.A)
		t.bExtra = extra.B
		t.haveB = true
	case tuplePhaseB:
		if t.haveB {
			t.machB.GiveExtra(t.bExtra)
			t.haveB = false
		} else {
			t.machB.GiveExtra(extra.B)
		}
	}
}

func (t *Tuple[EA, EB, A, B]) FinishBytes(n int) {
	switch t.phase {
	case tuplePhaseA:
		t.machA.FinishBytes(n)
	case tuplePhaseB:
		t.machB.FinishBytes(n)
	}
}

func (t *Tuple[EA, EB, A, B]) Process() (Pair[A, B], bool, error) {
	switch t.phase {
	case tuplePhaseA:
		out, done, err := t.machA.Process()
		if err != nil {
			return Pair[A, B]{}, false, &TupleError{Side: SideA, Inner: err}
		}
		if !done {
			return Pair[A, B]{}, false, nil
		}
		t.a = out
		t.machB = t.newB()
		if t.haveB {
			t.machB.GiveExtra(t.bExtra)
			t.haveB = false
		}
		t.phase = tuplePhaseB
		return Pair[A, B]{}, false, nil
	case tuplePhaseB:
		out, done, err := t.machB.Process()
		if err != nil {
			return Pair[A, B]{}, false, &TupleError{Side: SideB, Inner: err}
		}
		if !done {
			return Pair[A, B]{}, false, nil
		}
		t.phase = tuplePhaseDone
		return Pair[A, B]{First: t.a, Second: out}, true, nil
	default:
		panic("wirecodec: Tuple reused after completion")
	}
}
