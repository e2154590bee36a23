// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx_test

import (
	"testing"
	"time"

	"code.hybscloud.com/syncx"
)

// =============================================================================
// Parker - Edge-Triggered Latch
// =============================================================================

// TestParkerUnparkBeforePark verifies the token is retained: an Unpark
// issued before any Park makes the next Park return without blocking.
func TestParkerUnparkBeforePark(t *testing.T) {
	p := syncx.NewParker()
	p.Unpark()

	done := make(chan struct{})
	go func() {
		p.Park()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Park did not consume a pre-set token")
	}
}

// TestParkerHandoff verifies Park blocks until a matching Unpark arrives.
func TestParkerHandoff(t *testing.T) {
	p := syncx.NewParker()

	done := make(chan struct{})
	go func() {
		p.Park()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Park returned before Unpark")
	case <-time.After(50 * time.Millisecond):
	}

	p.Unpark()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Park did not return after Unpark")
	}
}

// TestParkerEdgeTriggered verifies the latch is one-shot: double Unpark
// saturates to a single token, and a second Park blocks until a fresh
// Unpark.
func TestParkerEdgeTriggered(t *testing.T) {
	p := syncx.NewParker()
	p.Unpark()
	p.Unpark() // token saturates; not counted

	first := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Park() // consumes the token
		close(first)
		p.Park() // must block: no token left
		close(done)
	}()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first Park did not consume the token")
	}

	select {
	case <-done:
		t.Fatal("second Park returned without a second Unpark")
	case <-time.After(50 * time.Millisecond):
	}

	p.Unpark()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second Park did not return after Unpark")
	}
}

// TestParkerPingPong alternates Park/Unpark between two goroutines to
// verify tokens are never lost across repeated cycles.
func TestParkerPingPong(t *testing.T) {
	const rounds = 1000

	a := syncx.NewParker()
	b := syncx.NewParker()

	done := make(chan struct{})
	go func() {
		for range rounds {
			a.Park()
			b.Unpark()
		}
		close(done)
	}()

	for range rounds {
		a.Unpark()
		b.Park()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ping-pong did not complete")
	}
}

// TestParkerPublishesWrites verifies writes made before Unpark are visible
// after the matching Park returns.
func TestParkerPublishesWrites(t *testing.T) {
	p := syncx.NewParker()
	payload := 0

	done := make(chan int)
	go func() {
		p.Park()
		done <- payload
	}()

	time.Sleep(10 * time.Millisecond)
	payload = 42
	p.Unpark()

	select {
	case got := <-done:
		if got != 42 {
			t.Fatalf("payload: got %d, want 42", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Park did not return")
	}
}
