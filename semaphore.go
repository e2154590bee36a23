// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// semClosed is the sticky close flag in the permit word's top bit.
// The same bit is ORed into a waiter's wants when Close wakes it, so a
// resuming waiter learns about the close without touching the permit word.
const semClosed = uint64(1) << 63

// MaxPermits is the largest permit count a Semaphore can carry: the permit
// word packs the count into the low 63 bits below the close flag.
const MaxPermits = ^uint64(0) &^ semClosed

// semWaiter is one blocked Acquire call: its own parker plus the permits
// it is still owed. wants is written by releasers under the queue mutex
// and read by the waiter only after its parker releases it, so the field
// needs no atomics.
type semWaiter struct {
	parker Parker
	wants  uint64
}

type semNode struct {
	waiter *semWaiter
	next   *semNode
}

// Semaphore is a counting semaphore with fair FIFO waiter ordering,
// multi-permit acquire/release, and an explicit closed state.
//
// The available-permit count lives in a lock-free word, so uncontended
// TryAcquire and Release never block. Acquire calls that cannot be
// satisfied enqueue a waiter carrying its own [Parker] onto a mutex-guarded
// FIFO queue and park; Release funds waiters strictly in queue order before
// crediting anything back to the permit word.
//
// Funding is allowed to be partial: a release smaller than the head
// waiter's remaining demand is debited against that waiter, which keeps its
// place at the head. A large request therefore cannot be starved by a
// stream of small acquirers — later waiters never overtake the head, and a
// partially funded waiter holds no permits until it is fully funded,
// dequeued and unparked.
//
// Close is terminal: it sets the sticky close flag, wakes every queued
// waiter exactly once with ErrClosed, and makes all subsequent operations
// return ErrClosed.
type Semaphore struct {
	_        pad
	permits  atomix.Uint64 // {closed:1 | count:63}
	_        pad
	capacity uint64

	mu   sync.Mutex // guards head, tail and queued waiters' wants
	head *semNode
	tail *semNode
}

// NewSemaphore creates a semaphore with initial permits available and
// capacity as the hard upper bound on the in-flight count.
// Panics if initial > capacity or capacity > MaxPermits.
func NewSemaphore(initial, capacity uint64) *Semaphore {
	if capacity > MaxPermits {
		panic("syncx: capacity exceeds MaxPermits")
	}
	if initial > capacity {
		panic("syncx: initial permits exceed capacity")
	}

	s := &Semaphore{capacity: capacity}
	s.permits.StoreRelaxed(initial)
	return s
}

// TryAcquire takes n permits without blocking.
// Returns nil on success, ErrWouldBlock if fewer than n permits are
// available, ErrClosed after Close.
func (s *Semaphore) TryAcquire(n uint64) error {
	sw := spin.Wait{}
	for {
		cur := s.permits.LoadAcquire()
		if cur&semClosed != 0 {
			return ErrClosed
		}
		if cur < n {
			return ErrWouldBlock
		}
		if s.permits.CompareAndSwapAcqRel(cur, cur-n) {
			return nil
		}
		sw.Once()
	}
}

// Acquire takes n permits, parking the caller until they are granted.
// Returns nil once the permits are owned, or ErrClosed if the semaphore
// is closed before or while waiting.
func (s *Semaphore) Acquire(n uint64) error {
	err := s.TryAcquire(n)
	if err == nil || err == ErrClosed {
		return err
	}

	w := &semWaiter{wants: n}
	w.parker.init()
	if s.enqueue(w) {
		w.parker.Park()
	}
	if w.wants&semClosed != 0 {
		return ErrClosed
	}
	return nil
}

// enqueue links w onto the waiter queue and reports whether the caller
// must park. The closed flag and the permit count are both re-checked
// under the mutex: a releaser holding the mutex either sees the linked
// node and funds it, or its permits land in the word before our re-try
// sees them. Either way no grant can fall through the gap between the
// caller's failed fast path and the lock.
func (s *Semaphore) enqueue(w *semWaiter) bool {
	node := &semNode{waiter: w}

	s.mu.Lock()
	if s.permits.Load()&semClosed != 0 {
		s.mu.Unlock()
		w.wants |= semClosed
		return false
	}
	if s.TryAcquire(w.wants) == nil {
		s.mu.Unlock()
		return false
	}
	if s.tail == nil {
		s.head, s.tail = node, node
	} else {
		s.tail.next = node
		s.tail = node
	}
	s.mu.Unlock()
	return true
}

// Release returns n permits, funding queued waiters in FIFO order first.
// Whatever the waiters do not consume is credited back to the available
// count. Returns ErrOverCapacity if the credit would push the count above
// the semaphore's capacity, or ErrClosed after Close.
func (s *Semaphore) Release(n uint64) error {
	s.mu.Lock()
	if s.permits.Load()&semClosed != 0 {
		s.mu.Unlock()
		return ErrClosed
	}

	for n > 0 && s.head != nil {
		w := s.head.waiter
		if w.wants > n {
			// Partial funding: debit the head waiter and keep it at the
			// head. It wakes only once a later release clears its debt.
			w.wants -= n
			n = 0
			break
		}
		n -= w.wants
		s.head = s.head.next
		if s.head == nil {
			s.tail = nil
		}
		w.parker.Unpark()
	}

	if n > 0 {
		sw := spin.Wait{}
		for {
			cur := s.permits.Load()
			if cur+n > s.capacity {
				s.mu.Unlock()
				return ErrOverCapacity
			}
			if s.permits.CompareAndSwapAcqRel(cur, cur+n) {
				break
			}
			sw.Once()
		}
	}
	s.mu.Unlock()
	return nil
}

// Close transitions the semaphore to its terminal closed state: the close
// flag is set, every queued waiter is woken exactly once with ErrClosed,
// and all later operations return ErrClosed. Close is idempotent.
func (s *Semaphore) Close() {
	s.mu.Lock()
	sw := spin.Wait{}
	for {
		cur := s.permits.Load()
		if cur&semClosed != 0 {
			s.mu.Unlock()
			return
		}
		if s.permits.CompareAndSwapAcqRel(cur, cur|semClosed) {
			break
		}
		sw.Once()
	}

	for s.head != nil {
		w := s.head.waiter
		s.head = s.head.next
		w.wants |= semClosed
		w.parker.Unpark()
	}
	s.tail = nil
	s.mu.Unlock()
}

// Closed reports whether Close has been called.
func (s *Semaphore) Closed() bool {
	return s.permits.LoadAcquire()&semClosed != 0
}
