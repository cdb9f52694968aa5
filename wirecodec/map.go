package wirecodec

import (
	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

// MapErrorKind mirrors ListErrorKind, named for the Map's own error surface.
type MapErrorKind int

const (
	MapErrLen MapErrorKind = iota
	MapErrEntry
)

type MapError struct {
	Kind  MapErrorKind
	Inner error
}

func (e *MapError) Error() string {
	if e.Kind == MapErrLen {
		return "wirecodec: map length: " + e.Inner.Error()
	}
	return "wirecodec: map entry: " + e.Inner.Error()
}

func (e *MapError) Unwrap() error { return e.Inner }

// Map decodes a fixed-length sequence of (K,V) entries, one extra pair per
// entry supplied out of band up front, collapsing duplicate keys with
// last-writer-wins (the entry decoded later in the sequence overwrites an
// earlier one sharing its key). Structurally this is a List of Tuple(K,V).
type Map[KE, VE any, K comparable, V any] struct {
	inner sansio.Machine[[]TupleExtra[KE, VE], []Pair[K, V]]
}

func NewMap[KE, VE any, K comparable, V any](
	newKey sansio.NewMachine[KE, K],
	newVal sansio.NewMachine[VE, V],
) sansio.Machine[[]TupleExtra[KE, VE], map[K]V] {
	newPair := func() sansio.Machine[TupleExtra[KE, VE], Pair[K, V]] {
		return NewTuple(newKey, newVal)
	}
	return &Map[KE, VE, K, V]{inner: NewList(newPair)}
}

var _ sansio.Machine[[]TupleExtra[int, int], map[int]int] = (*Map[int, int, int, int])(nil)

func (m *Map[KE, VE, K, V]) Want() sansio.Slot { return m.inner.Want() }

func (m *Map[KE, VE, K, V]) GiveExtra(extras []TupleExtra[KE, VE]) { m.inner.GiveExtra(extras) }

func (m *Map[KE, VE, K, V]) FinishBytes(n int) { m.inner.FinishBytes(n) }

func (m *Map[KE, VE, K, V]) Process() (map[K]V, bool, error) {
	pairs, done, err := m.inner.Process()
	if err != nil {
		return nil, false, &MapError{Kind: MapErrEntry, Inner: err}
	}
	if !done {
		return nil, false, nil
	}
	out := make(map[K]V, len(pairs))
	for _, p := range pairs {
		out[p.First] = p.Second // last-writer-wins: later entries overwrite earlier ones.
	}
	return out, true, nil
}

// EncodeMap appends the concatenated encoding of every (key, value) entry
// in vals, in iteration order. No length prefix is written.
func EncodeMap[K comparable, V any](into *[]byte, vals map[K]V, encodeKey func(*[]byte, K), encodeVal func(*[]byte, V)) {
	for k, v := range vals {
		encodeKey(into, k)
		encodeVal(into, v)
	}
}

// BasicMap decodes a self-delimited map: an unsigned VLI entry count
// followed by that many concatenated (K,V) entries, each requiring no
// extra. Duplicate keys resolve last-writer-wins, same as Map.
type BasicMap[K comparable, V any] struct {
	inner sansio.Machine[struct{}, []Pair[K, V]]
}

func NewBasicMap[K comparable, V any](
	newKey sansio.NewMachine[struct{}, K],
	newVal sansio.NewMachine[struct{}, V],
) sansio.Machine[struct{}, map[K]V] {
	newPair := func() sansio.Machine[struct{}, Pair[K, V]] {
		return newBasicTuple(newKey, newVal)
	}
	return &BasicMap[K, V]{inner: NewBasicList(newPair)}
}

var _ sansio.Machine[struct{}, map[int]int] = (*BasicMap[int, int])(nil)

func (m *BasicMap[K, V]) Want() sansio.Slot { return m.inner.Want() }

func (m *BasicMap[K, V]) GiveExtra(struct{}) {}

func (m *BasicMap[K, V]) FinishBytes(n int) { m.inner.FinishBytes(n) }

func (m *BasicMap[K, V]) Process() (map[K]V, bool, error) {
	pairs, done, err := m.inner.Process()
	if err != nil {
		if le, ok := err.(*ListError); ok && le.Kind == ListErrLen {
			return nil, false, &MapError{Kind: MapErrLen, Inner: err}
		}
		return nil, false, &MapError{Kind: MapErrEntry, Inner: err}
	}
	if !done {
		return nil, false, nil
	}
	out := make(map[K]V, len(pairs))
	for _, p := range pairs {
		out[p.First] = p.Second
	}
	return out, true, nil
}

// EncodeBasicMap appends an unsigned VLI entry count followed by the
// concatenated encoding of every (key, value) entry in vals.
func EncodeBasicMap[K comparable, V any](into *[]byte, vals map[K]V, encodeKey func(*[]byte, K), encodeVal func(*[]byte, V)) {
	varint.Encode(into, varint.FromUnsigned(uint64(len(vals))))
	for k, v := range vals {
		encodeKey(into, k)
		encodeVal(into, v)
	}
}

// basicTuple adapts a Tuple(struct{}, struct{}, K, V) to the struct{}-extra
// Machine shape BasicList requires of its elements: the tuple's own two
// no-op extras are fed internally rather than requested from the driver.
type basicTuple[K, V any] struct {
	inner sansio.Machine[TupleExtra[struct{}, struct{}], Pair[K, V]]
	fed   bool
}

func newBasicTuple[K, V any](newKey sansio.NewMachine[struct{}, K], newVal sansio.NewMachine[struct{}, V]) sansio.Machine[struct{}, Pair[K, V]] {
	return &basicTuple[K, V]{inner: NewTuple(newKey, newVal)}
}

func (t *basicTuple[K, V]) Want() sansio.Slot {
	if !t.fed {
		return sansio.Slot{Kind: sansio.WantProcess}
	}
	return t.inner.Want()
}

func (t *basicTuple[K, V]) GiveExtra(struct{}) {}

func (t *basicTuple[K, V]) FinishBytes(n int) { t.inner.FinishBytes(n) }

func (t *basicTuple[K, V]) Process() (Pair[K, V], bool, error) {
	if !t.fed {
		t.inner.GiveExtra(TupleExtra[struct{}, struct{}]{})
		t.fed = true
		return Pair[K, V]{}, false, nil
	}
	return t.inner.Process()
}
