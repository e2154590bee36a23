// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Parker is a one-shot edge-triggered latch a goroutine uses to suspend
// itself until another goroutine wakes it.
//
// Park blocks until the latch is set and clears it on return; Unpark sets
// the latch and wakes the parked goroutine if there is one. An Unpark that
// arrives before Park makes the next Park return immediately — the token is
// retained, not lost. A second Unpark while the token is already set is a
// no-op.
//
// Parker is the blocking leaf under [Chan] and [Semaphore]: both park the
// calling goroutine on a Parker instead of spinning when they cannot make
// progress.
//
// Parker holds at most one token and expects at most one goroutine in Park
// at a time. Concurrent parkers sharing one instance contend for the single
// token; an Unpark that finds the token clear releases exactly one of them,
// and one that finds it already set releases none.
type Parker struct {
	state atomix.Bool
	mu    sync.Mutex
	cond  sync.Cond
}

// NewParker creates a ready-to-use Parker with no token set.
func NewParker() *Parker {
	p := &Parker{}
	p.init()
	return p
}

// init wires the condvar to the mutex. Split out so Parker can be embedded
// by value and initialized in place.
func (p *Parker) init() {
	p.cond.L = &p.mu
}

// Park blocks the calling goroutine until the token is set, then consumes
// it. Spurious condvar wakeups are absorbed: Park only returns after
// observing the token.
//
// The token transitions under the parker mutex, so everything the unparking
// goroutine wrote before Unpark is visible when Park returns.
func (p *Parker) Park() {
	p.mu.Lock()
	for !p.state.Load() {
		p.cond.Wait()
	}
	p.state.Store(false)
	p.mu.Unlock()
}

// Unpark sets the token and wakes one parked goroutine. If no goroutine is
// parked, the token stays set and the next Park returns without blocking.
func (p *Parker) Unpark() {
	p.mu.Lock()
	p.state.Store(true)
	p.cond.Signal()
	p.mu.Unlock()
}
