// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// spinBudget bounds consecutive ticket-CAS losses on the non-blocking
// channel paths. Past the budget the operation reports ErrWouldBlock even
// though the ring may not be at capacity: the caller asked for a
// non-blocking call, not an unbounded spin loop.
const spinBudget = 64

// Chan is a bounded multi-producer multi-consumer FIFO channel.
//
// The ring is a CAS-based queue with per-slot sequence numbers: each slot
// carries a seq stamp that encodes both its lap number and whether it is
// currently writable or readable. A producer claims ticket t from the tail
// counter and may write slot t mod capacity only while seq == t; publishing
// the element stores seq = t+1. A consumer with ticket h reads while
// seq == h+1 and retires the slot with seq = h+capacity, making it writable
// on the next lap. The stamps give full ABA safety and double as the
// full/empty indicator.
//
// On top of the non-blocking ring, Send and Recv add parking: a producer
// that finds the ring full suspends on the channel's send parker until a
// consumer vacates a slot, and symmetrically for consumers. Counters of
// parked producers/consumers let the fast paths skip the wakeup entirely
// when nobody is waiting, so an uncontended TrySend/TryRecv never touches
// a mutex.
//
// Capacity is exact, not rounded to a power of two: a Chan of capacity 1
// holds exactly one element.
//
// Memory: n slots (64 bytes of seq stamp and padding plus the element per slot)
type Chan[T any] struct {
	_           pad
	tail        atomix.Uint64 // Producer ticket counter
	_           pad
	head        atomix.Uint64 // Consumer ticket counter
	_           pad
	sendWaiting atomix.Int32 // Producers parked on sendParker
	_           pad
	recvWaiting atomix.Int32 // Consumers parked on recvParker
	_           pad
	buffer      []chanSlot[T]
	capacity    uint64
	sendParker  Parker
	recvParker  Parker
}

type chanSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewChan creates a bounded MPMC channel holding exactly capacity elements.
// Panics if capacity < 1.
func NewChan[T any](capacity int) *Chan[T] {
	if capacity < 1 {
		panic("syncx: capacity must be >= 1")
	}

	q := &Chan[T]{
		buffer:   make([]chanSlot[T], capacity),
		capacity: uint64(capacity),
	}
	q.sendParker.init()
	q.recvParker.init()

	for i := range q.buffer {
		q.buffer[i].seq.StoreRelaxed(uint64(i))
	}

	return q
}

// TrySend copies the element into the channel (non-blocking).
// Returns nil on success, ErrWouldBlock if the channel is full or the
// ticket CAS stayed contended past the spin budget.
func (q *Chan[T]) TrySend(elem *T) error {
	sw := spin.Wait{}
	lost := 0
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				if q.recvWaiting.Load() > 0 {
					q.recvParker.Unpark()
				}
				return nil
			}
			if lost++; lost > spinBudget {
				return ErrWouldBlock
			}
		} else if diff < 0 {
			// Slot still holds the previous lap's element: full.
			return ErrWouldBlock
		}
		// diff > 0: another producer moved past this ticket; reload tail.
		sw.Once()
	}
}

// TryRecv removes and returns an element from the channel (non-blocking).
// Returns (zero-value, ErrWouldBlock) if the channel is empty or the
// ticket CAS stayed contended past the spin budget.
func (q *Chan[T]) TryRecv() (T, error) {
	sw := spin.Wait{}
	lost := 0
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				if q.sendWaiting.Load() > 0 {
					q.sendParker.Unpark()
				}
				return elem, nil
			}
			if lost++; lost > spinBudget {
				var zero T
				return zero, ErrWouldBlock
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Send copies the element into the channel, parking the caller until a slot
// is available.
//
// The waiting counter is raised before the final re-test, so a consumer
// that vacates a slot after the re-test is guaranteed to observe the
// counter and unpark. A wakeup consumed without progress simply loops back
// into TrySend.
func (q *Chan[T]) Send(elem *T) {
	for {
		if q.TrySend(elem) == nil {
			return
		}
		q.sendWaiting.Add(1)
		if q.TrySend(elem) == nil {
			q.sendWaiting.Add(-1)
			return
		}
		q.sendParker.Park()
		q.sendWaiting.Add(-1)
	}
}

// Recv removes and returns an element, parking the caller until one
// arrives.
func (q *Chan[T]) Recv() T {
	for {
		elem, err := q.TryRecv()
		if err == nil {
			return elem
		}
		q.recvWaiting.Add(1)
		if elem, err = q.TryRecv(); err == nil {
			q.recvWaiting.Add(-1)
			return elem
		}
		q.recvParker.Park()
		q.recvWaiting.Add(-1)
	}
}

// Cap returns the channel capacity.
func (q *Chan[T]) Cap() int {
	return int(q.capacity)
}
