// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package syncx provides blocking concurrency primitives built on a
// parking latch: a thread parker, a bounded MPMC channel with blocking
// send/receive, and a fair closable counting semaphore.
//
// The package complements code.hybscloud.com/lfq: where lfq queues are
// purely non-blocking and leave backpressure to the caller, syncx
// primitives park the calling goroutine on an edge-triggered latch when
// they cannot make progress, so a stalled producer or consumer costs zero
// CPU instead of a spin loop.
//
// # Parker
//
// [Parker] is the blocking leaf everything else is built on: a one-shot
// edge-triggered latch. Park suspends the caller until the latch is set
// and consumes it; Unpark sets it. An Unpark issued before Park is not
// lost — the next Park returns immediately.
//
//	p := syncx.NewParker()
//
//	go func() {
//	    prepare()
//	    p.Unpark()
//	}()
//
//	p.Park() // returns once prepare() is done
//
// # Channel
//
// [Chan] is a bounded multi-producer multi-consumer FIFO channel over a
// CAS-based ring with per-slot sequence numbers. TrySend and TryRecv are
// non-blocking and return [ErrWouldBlock] on a full or empty ring; Send
// and Recv park on the channel's internal parkers instead:
//
//	q := syncx.NewChan[Job](1024)
//
//	// Producer
//	go func() {
//	    for job := range jobs {
//	        q.Send(&job) // parks while the ring is full
//	    }
//	}()
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job := q.Recv() // parks while the ring is empty
//	            job.Run()
//	        }
//	    }()
//	}
//
// [ChanPtr] is the same channel for unsafe.Pointer payloads, for zero-copy
// ownership handoff.
//
// # Semaphore
//
// [Semaphore] is a counting semaphore with multi-permit operations, strict
// FIFO waiter fairness and an explicit closed state:
//
//	sem := syncx.NewSemaphore(8, 8)
//
//	if err := sem.Acquire(2); err != nil {
//	    return err // ErrClosed: semaphore was shut down
//	}
//	defer sem.Release(2)
//
// Waiters are funded in arrival order; a release smaller than the head
// waiter's demand is debited against it without waking it, so a large
// request is never starved by smaller ones arriving behind it. Close wakes
// every parked waiter with [ErrClosed] and poisons all later operations.
//
// # Error Handling
//
// Non-blocking operations return [ErrWouldBlock] (an alias for
// iox.ErrWouldBlock) as a control flow signal. Blocking variants never
// surface it — they park and retry. [ErrClosed] and [ErrOverCapacity]
// report semaphore lifecycle violations.
//
// # Race Detection
//
// Go's race detector cannot observe the happens-before edges established
// by atomix acquire-release operations, so it reports false positives on
// the channel's sequence-stamp protocol. Concurrent channel tests are
// skipped under the race detector; see the lfq package documentation for
// background.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package syncx
