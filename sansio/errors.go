package sansio

import "errors"

// ErrNotEnoughBytes is a driver-side error: it is never returned by a
// Machine's Process, only by helpers (like Drive) that run out of input
// while a machine is still waiting on WantByte/WantBytes.
var ErrNotEnoughBytes = errors.New("sansio: not enough bytes")
