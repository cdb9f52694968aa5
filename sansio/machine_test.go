package sansio_test

import (
	"testing"

	"github.com/kstaniek/go-chippy-chat/sansio"
	"github.com/kstaniek/go-chippy-chat/varint"
)

func TestNewMachineWithExtraDeliversExtraBeforeBytes(t *testing.T) {
	m := sansio.NewMachineWithExtra[varint.Sign, varint.Int](
		func() sansio.Machine[varint.Sign, varint.Int] { return varint.NewMachine() },
		varint.Unsigned,
	)
	slot := m.Want()
	if slot.Kind != sansio.WantByte {
		t.Fatalf("want = %v after GiveExtra, want WantByte", slot.Kind)
	}
}

func TestDriveErrorsOnTruncatedInput(t *testing.T) {
	// Header byte says 4 trailing bytes follow; only 1 is supplied.
	_, _, err := sansio.Drive[varint.Sign, varint.Int](varint.NewMachine(), varint.Unsigned, []byte{0xF3, 0x01})
	if err != sansio.ErrNotEnoughBytes {
		t.Fatalf("err = %v, want ErrNotEnoughBytes", err)
	}
}
