package hanoi

import "errors"

// Construction failures.
var (
	ErrNoPegs          = errors.New("hanoi: at least one peg is required")
	ErrNonPositiveDisk = errors.New("hanoi: disk sizes must be positive")
	ErrDuplicateDisk   = errors.New("hanoi: duplicate disk")
	ErrUnsortedPeg     = errors.New("hanoi: peg is not sorted largest to smallest")
)

// Move failures returned by Apply.
var (
	ErrEmptySourcePeg      = errors.New("hanoi: source peg is empty")
	ErrDestinationTooSmall = errors.New("hanoi: destination top disk is smaller")
	ErrDiskMismatch        = errors.New("hanoi: disk is not on top of the source peg")
	ErrSamePeg             = errors.New("hanoi: source and destination are the same peg")
)

// ErrInvalidPegIndex is the panic value (wrapped) raised when a peg index is
// out of range. It signals a programming error and is never returned.
var ErrInvalidPegIndex = errors.New("hanoi: invalid peg index")
