// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

// Waker is the capability pair for suspending and resuming one goroutine.
// [Parker] is the canonical implementation; callers that only need
// "wait here / wake me" semantics should accept a Waker.
type Waker interface {
	// Park blocks the caller until a wake token is available, consuming it.
	Park()
	// Unpark deposits a wake token, releasing a parked goroutine if any.
	Unpark()
}

// Sender is the producer half of a channel.
//
// The element is passed by pointer to avoid copying large structs. The
// channel stores a copy of the pointed-to value, so the original can be
// reused after the call returns.
type Sender[T any] interface {
	// TrySend copies the element into the channel (non-blocking).
	// Returns nil on success, ErrWouldBlock if the channel is full.
	TrySend(elem *T) error
	// Send copies the element into the channel, parking the caller until
	// a slot is available.
	Send(elem *T)
}

// Receiver is the consumer half of a channel.
//
// Elements are returned by value, copied out of the channel's buffer. The
// vacated slot is cleared so referenced objects can be collected.
type Receiver[T any] interface {
	// TryRecv removes and returns an element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the channel is empty.
	TryRecv() (T, error)
	// Recv removes and returns an element, parking the caller until one
	// arrives.
	Recv() T
}

// Channel is the combined producer-consumer interface for a bounded FIFO
// channel with both non-blocking and blocking operations.
//
// The interface intentionally excludes length because accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
// Track counts in application logic when needed.
type Channel[T any] interface {
	Sender[T]
	Receiver[T]
	Cap() int
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
