package fracdex

import "strings"

// Digits is the ordered digit alphabet. Every key ever generated depends on
// this ordering, so it must never change.
const Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Zero is the key returned when no bounds are given.
const Zero = "a0"

const (
	base        = len(Digits)
	fbase       = float64(base)
	smallestInt = "A00000000000000000000000000"
)

func digitIndex(c byte) int {
	return strings.IndexByte(Digits, c)
}

// integerLength returns the length of the integer part implied by its head.
func integerLength(head byte) (int, error) {
	switch {
	case head >= 'a' && head <= 'z':
		return int(head-'a') + 2, nil
	case head >= 'A' && head <= 'Z':
		return int('Z'-head) + 2, nil
	default:
		return 0, ErrInvalidHead
	}
}

// ValidateInteger checks that x is a well-formed integer part.
func ValidateInteger(x string) error {
	if x == "" {
		return keyError(x, ErrInvalidKey)
	}
	n, err := integerLength(x[0])
	if err != nil {
		return keyError(x, err)
	}
	if len(x) != n {
		return keyError(x, ErrInvalidKey)
	}
	for i := 1; i < len(x); i++ {
		if digitIndex(x[i]) < 0 {
			return keyError(x, ErrInvalidKey)
		}
	}
	return nil
}

// IntegerPart returns the integer prefix of key.
func IntegerPart(key string) (string, error) {
	if key == "" {
		return "", keyError(key, ErrInvalidKey)
	}
	n, err := integerLength(key[0])
	if err != nil {
		return "", keyError(key, err)
	}
	if n > len(key) {
		return "", keyError(key, ErrInvalidKey)
	}
	return key[:n], nil
}

// IncrementInteger returns the integer part following x. It returns "" with
// a nil error when x is the largest representable integer.
func IncrementInteger(x string) (string, error) {
	if err := ValidateInteger(x); err != nil {
		return "", err
	}
	head := x[0]
	digs := []byte(x[1:])
	carry := true
	for i := len(digs) - 1; carry && i >= 0; i-- {
		d := digitIndex(digs[i]) + 1
		if d == base {
			digs[i] = '0'
		} else {
			digs[i] = Digits[d]
			carry = false
		}
	}
	if !carry {
		return string(head) + string(digs), nil
	}
	switch head {
	case 'Z':
		return Zero, nil
	case 'z':
		return "", nil
	}
	h := head + 1
	if h > 'a' {
		digs = append(digs, '0')
	} else {
		digs = digs[1:]
	}
	return string(h) + string(digs), nil
}

// DecrementInteger returns the integer part preceding x. It returns "" with
// a nil error when x is the smallest representable integer.
//
// Decrement is increment under the complement map x -> -x-1, which keeps the
// two wrap points (a0 <-> Zz) mirror images of each other.
func DecrementInteger(x string) (string, error) {
	if err := ValidateInteger(x); err != nil {
		return "", err
	}
	next, err := IncrementInteger(complementInteger(x))
	if err != nil || next == "" {
		return "", err
	}
	return complementInteger(next), nil
}

// complementInteger maps a valid integer part to -x-1: heads 'a'+k and
// 'Z'-k swap (same length) and each digit d becomes base-1-d.
func complementInteger(x string) string {
	out := make([]byte, len(x))
	if h := x[0]; h >= 'a' {
		out[0] = 'Z' - (h - 'a')
	} else {
		out[0] = 'a' + ('Z' - h)
	}
	for i := 1; i < len(x); i++ {
		out[i] = Digits[base-1-digitIndex(x[i])]
	}
	return string(out)
}
