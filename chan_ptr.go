// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// ChanPtr is a bounded MPMC channel for unsafe.Pointer values.
// Useful for zero-copy object handoff between goroutines: the producer
// enqueues a pointer and transfers ownership to whichever consumer
// dequeues it.
//
// Same sequence-stamped ring and parking protocol as [Chan].
type ChanPtr struct {
	_           pad
	tail        atomix.Uint64
	_           pad
	head        atomix.Uint64
	_           pad
	sendWaiting atomix.Int32
	_           pad
	recvWaiting atomix.Int32
	_           pad
	buffer      []chanPtrSlot
	capacity    uint64
	sendParker  Parker
	recvParker  Parker
}

type chanPtrSlot struct {
	seq  atomix.Uint64
	data unsafe.Pointer
	_    padShort
}

// NewChanPtr creates a bounded MPMC channel for unsafe.Pointer values.
// Panics if capacity < 1.
func NewChanPtr(capacity int) *ChanPtr {
	if capacity < 1 {
		panic("syncx: capacity must be >= 1")
	}

	q := &ChanPtr{
		buffer:   make([]chanPtrSlot, capacity),
		capacity: uint64(capacity),
	}
	q.sendParker.init()
	q.recvParker.init()

	for i := range q.buffer {
		q.buffer[i].seq.StoreRelaxed(uint64(i))
	}

	return q
}

// TrySend enqueues a pointer (non-blocking).
// Returns ErrWouldBlock if the channel is full.
func (q *ChanPtr) TrySend(elem unsafe.Pointer) error {
	sw := spin.Wait{}
	lost := 0
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = elem
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
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// TryRecv dequeues a pointer (non-blocking).
// Returns (nil, ErrWouldBlock) if the channel is empty.
func (q *ChanPtr) TryRecv() (unsafe.Pointer, error) {
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
				slot.data = nil
				slot.seq.StoreRelease(head + q.capacity)
				if q.sendWaiting.Load() > 0 {
					q.sendParker.Unpark()
				}
				return elem, nil
			}
			if lost++; lost > spinBudget {
				return nil, ErrWouldBlock
			}
		} else if diff < 0 {
			return nil, ErrWouldBlock
		}
		sw.Once()
	}
}

// Send enqueues a pointer, parking the caller until a slot is available.
func (q *ChanPtr) Send(elem unsafe.Pointer) {
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

// Recv dequeues a pointer, parking the caller until one arrives.
func (q *ChanPtr) Recv() unsafe.Pointer {
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
func (q *ChanPtr) Cap() int {
	return int(q.capacity)
}
