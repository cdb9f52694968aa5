package wirecodec

import (
	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

type listPhase int

const (
	listPhaseAwaitingExtras listPhase = iota
	listPhaseElements
	listPhaseDone
)

// List decodes a fixed-length sequence of T, one extra per element supplied
// out of band up front: the element count is never on the wire, it is
// implied by len(extras). This is the shape game state needs when the
// element count is already known from elsewhere in the message (for
// example, the player count that precedes a pot's per-player amounts).
type List[EE, T any] struct {
	newElem sansio.NewMachine[EE, T]

	phase   listPhase
	extras  []EE
	next    int
	soFar   []T
	current sansio.Machine[EE, T]
}

func NewList[EE, T any](newElem sansio.NewMachine[EE, T]) sansio.Machine[[]EE, []T] {
	return &List[EE, T]{newElem: newElem, phase: listPhaseAwaitingExtras}
}

var _ sansio.Machine[[]int, []int] = (*List[int, int])(nil)

func (l *List[EE, T]) Want() sansio.Slot {
	switch l.phase {
	case listPhaseAwaitingExtras:
		return sansio.Slot{Kind: sansio.WantExtra}
	case listPhaseElements:
		if l.current == nil {
			return sansio.Slot{Kind: sansio.WantProcess}
		}
		return l.current.Want()
	default:
		return sansio.Slot{Kind: sansio.WantProcess}
	}
}

func (l *List[EE, T]) GiveExtra(extras []EE) {
	if l.phase != listPhaseAwaitingExtras {
		return
	}
	l.extras = extras
	l.soFar = make([]T, 0, len(extras))
	l.phase = listPhaseElements
	l.startNext()
}

func (l *List[EE, T]) startNext() {
	if l.next >= len(l.extras) {
		l.current = nil
		return
	}
	m := l.newElem()
	m.GiveExtra(l.extras[l.next])
	l.current = m
}

func (l *List[EE, T]) FinishBytes(n int) {
	if l.phase == listPhaseElements && l.current != nil {
		l.current.FinishBytes(n)
	}
}

func (l *List[EE, T]) Process() (out []T, done bool, err error) {
	switch l.phase {
	case listPhaseElements:
		if l.current == nil {
			l.phase = listPhaseDone
			return l.soFar, true, nil
		}
		v, fin, err := l.current.Process()
		if err != nil {
			return nil, false, &ListError{Kind: ListErrElement, Inner: err}
		}
		if !fin {
			return nil, false, nil
		}
		l.soFar = append(l.soFar, v)
		l.next++
		l.startNext()
		if l.current == nil {
			l.phase = listPhaseDone
			return l.soFar, true, nil
		}
		return nil, false, nil
	default:
		panic("wirecodec: List reused after completion")
	}
}

// EncodeList appends the concatenated encoding of every element in vals,
// using encodeElem for each. No length prefix is written: the extra-driven
// List is only ever decoded with an externally known count.
func EncodeList[T any](into *[]byte, vals []T, encodeElem func(*[]byte, T)) {
	for _, v := range vals {
		encodeElem(into, v)
	}
}

type basicListPhase int

const (
	basicListPhaseLen basicListPhase = iota
	basicListPhaseElements
)

// BasicList decodes a self-delimited sequence of T: an unsigned VLI count
// followed by that many concatenated elements, each requiring no extra.
type BasicList[T any] struct {
	newElem sansio.NewMachine[struct{}, T]

	phase      basicListPhase
	lenMachine *varint.Machine
	inner      sansio.Machine[[]struct{}, []T]
}

func NewBasicList[T any](newElem sansio.NewMachine[struct{}, T]) sansio.Machine[struct{}, []T] {
	lm := varint.NewMachine()
	lm.GiveExtra(varint.Unsigned)
	return &BasicList[T]{newElem: newElem, lenMachine: lm}
}

var _ sansio.Machine[struct{}, []int] = (*BasicList[int])(nil)

func (b *BasicList[T]) Want() sansio.Slot {
	if b.phase == basicListPhaseLen {
		return b.lenMachine.Want()
	}
	return b.inner.Want()
}

func (b *BasicList[T]) GiveExtra(struct{}) {}

func (b *BasicList[T]) FinishBytes(n int) {
	if b.phase == basicListPhaseLen {
		b.lenMachine.FinishBytes(n)
		return
	}
	b.inner.FinishBytes(n)
}

func (b *BasicList[T]) Process() ([]T, bool, error) {
	if b.phase == basicListPhaseLen {
		n, done, err := b.lenMachine.Process()
		if err != nil {
			return nil, false, &ListError{Kind: ListErrLen, Inner: err}
		}
		if !done {
			return nil, false, nil
		}
		count, err := varint.ToUnsigned[uint64](n)
		if err != nil {
			return nil, false, &ListError{Kind: ListErrLen, Inner: err}
		}
		extras := make([]struct{}, count)
		b.inner = NewList(b.newElem)
		b.inner.GiveExtra(extras)
		b.phase = basicListPhaseElements
		return nil, false, nil
	}
	return b.inner.Process()
}

// EncodeBasicList appends an unsigned VLI count followed by the concatenated
// encoding of every element in vals.
func EncodeBasicList[T any](into *[]byte, vals []T, encodeElem func(*[]byte, T)) {
	varint.Encode(into, varint.FromUnsigned(uint64(len(vals))))
	for _, v := range vals {
		encodeElem(into, v)
	}
}
