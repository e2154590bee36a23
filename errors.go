// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TrySend: the channel is full (backpressure)
// For TryRecv: the channel is empty (no data available)
// For TryAcquire: fewer permits are available than requested
//
// TrySend and TryRecv may also return ErrWouldBlock after losing the ticket
// CAS too many times in a row: heavy contention and a full (or empty) ring
// are deliberately indistinguishable on the non-blocking surface. The
// blocking variants absorb both.
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (or use the blocking variant) rather than propagating it.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed is returned by every semaphore operation after Close, including
// Acquire calls that were already parked when Close ran.
var ErrClosed = errors.New("syncx: semaphore closed")

// ErrOverCapacity is returned by Release when crediting the permits back
// would push the available count above the semaphore's capacity.
var ErrOverCapacity = errors.New("syncx: release exceeds capacity")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
