package fracdex

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHead reports a key or integer part whose first character
	// is not in a-z or A-Z.
	ErrInvalidHead = errors.New("invalid order key head")
	// ErrInvalidKey reports a structurally malformed key: an integer part
	// of the wrong length, or a character outside the digit alphabet.
	ErrInvalidKey = errors.New("invalid order key")
	// ErrReservedKey reports the smallest representable key, which is
	// excluded from the key space.
	ErrReservedKey = errors.New("reserved order key")
	// ErrTrailingZero reports a key or fractional string ending in '0'.
	ErrTrailingZero = errors.New("trailing zero digit")
	// ErrOrder reports bounds that are not strictly ascending.
	ErrOrder = errors.New("order keys out of order")
	// ErrRangeOverflow and ErrRangeUnderflow report that the key space has
	// no key left on the requested side.
	ErrRangeOverflow  = errors.New("range overflow")
	ErrRangeUnderflow = errors.New("range underflow")
)

// KeyError records the key that failed validation and the reason.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Key)
}

func (e *KeyError) Unwrap() error { return e.Err }

func keyError(key string, err error) error {
	return &KeyError{Key: key, Err: err}
}

func orderError(a, b string) error {
	return fmt.Errorf("%w: %s >= %s", ErrOrder, a, b)
}
