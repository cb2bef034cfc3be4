package forcecrc32

import (
	"errors"
	"fmt"

	"github.com/bodgit/forcecrc32/gf2"
)

var (
	// ErrInvalidOffset is returned when a byte offset can't be parsed
	ErrInvalidOffset = errors.New("invalid byte offset")
	// ErrInvalidCRC is returned when a CRC-32 value isn't exactly eight
	// hexadecimal digits
	ErrInvalidCRC = errors.New("invalid new CRC-32 value")
	// ErrNotFile is returned when the target isn't an existing regular file
	ErrNotFile = errors.New("file does not exist")
	// ErrOffsetRange is returned when the patch window would run past the
	// end of the file
	ErrOffsetRange = errors.New("byte offset plus 4 exceeds file length")
	// ErrNoDataTrack is returned when a cue sheet only has audio tracks
	ErrNoDataTrack = errors.New("cue sheet has no data track")
	// ErrNoJournal is returned when an operation needs the patch journal
	// and none was configured
	ErrNoJournal = errors.New("no patch journal")
	// ErrNoPatch is returned when the journal has no patch for a file
	ErrNoPatch = errors.New("no recorded patch")
	// ErrModified is returned when reverting a file that has changed since
	// it was patched
	ErrModified = errors.New("file modified since it was patched")
)

var invalidArguments = []error{
	ErrInvalidOffset,
	ErrInvalidCRC,
	ErrNotFile,
	ErrOffsetRange,
	ErrNoDataTrack,
	ErrNoJournal,
	ErrNoPatch,
	ErrModified,
	gf2.ErrDivisionByZero,
	gf2.ErrNoReciprocal,
}

// IsInvalidArgument reports whether err was caused by bad input rather
// than an I/O failure or a broken invariant.
func IsInvalidArgument(err error) bool {
	for _, target := range invalidArguments {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// AssertionError is returned when the file doesn't have the expected
// CRC-32 after patching. It means the arithmetic is wrong, not the input.
type AssertionError struct {
	Want, Got uint32
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("failed to update CRC-32 to desired value, wanted %08X, got %08X", e.Want, e.Got)
}
