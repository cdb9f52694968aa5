package hub

import (
	"testing"
	"time"

	"github.com/kstaniek/go-chippy-chat/protocol"
)

func TestHubBroadcastDropDoesNotBlock(t *testing.T) {
	h := New()
	cl := &Client{Out: make(chan protocol.ToClientMessage, 4), Closed: make(chan struct{})}
	h.Add(cl)
	defer h.Remove(cl)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		h.Broadcast(protocol.AdminMsg("lobby is open"))
	}
	elapsed := time.Since(start)
	if elapsed > time.Second {
		t.Fatalf("Broadcast took too long: %s", elapsed)
	}
	if len(cl.Out) != cap(cl.Out) {
		t.Fatalf("expected client buffer to be full, got len=%d cap=%d", len(cl.Out), cap(cl.Out))
	}
}

func TestHubBroadcastDropKeepsOthersFlowing(t *testing.T) {
	h := New()
	slow := &Client{Out: make(chan protocol.ToClientMessage, 1), Closed: make(chan struct{})}
	fast := &Client{Out: make(chan protocol.ToClientMessage, 16), Closed: make(chan struct{})}
	h.Add(slow)
	h.Add(fast)
	defer h.Remove(slow)
	defer h.Remove(fast)

	h.Broadcast(protocol.AdminMsg("one"))
	select {
	case <-slow.Out:
	default:
	}

	for i := 0; i < 10; i++ {
		h.Broadcast(protocol.AdminMsg("burst"))
	}

	got := 0
	timeout := time.After(200 * time.Millisecond)
loop:
	for {
		select {
		case <-fast.Out:
			got++
			if got >= 5 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}
	if got == 0 {
		t.Fatalf("fast client did not receive any messages while slow was backpressured")
	}
}

func TestHubKickPolicyClosesSlowClient(t *testing.T) {
	h := New()
	h.Policy = PolicyKick
	cl := &Client{Out: make(chan protocol.ToClientMessage, 1), Closed: make(chan struct{})}
	h.Add(cl)
	defer h.Remove(cl)

	h.Broadcast(protocol.AdminMsg("first"))
	h.Broadcast(protocol.AdminMsg("second")) // Out is now full: this should kick.

	select {
	case <-cl.Closed:
	default:
		t.Fatalf("expected client to be closed under kick policy")
	}
}

func TestHubCountAndSnapshot(t *testing.T) {
	h := New()
	a := &Client{Out: make(chan protocol.ToClientMessage, 1), Closed: make(chan struct{})}
	b := &Client{Out: make(chan protocol.ToClientMessage, 1), Closed: make(chan struct{})}
	h.Add(a)
	h.Add(b)
	if h.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", h.Count())
	}
	h.Remove(a)
	if h.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", h.Count())
	}
	if s := h.Snapshot(); len(s) != 1 || s[0] != b {
		t.Fatalf("Snapshot() = %v, want [b]", s)
	}
}
