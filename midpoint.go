package fracdex

import "strings"

// pickFunc chooses a digit index strictly between lo and hi (hi-lo > 1).
type pickFunc func(lo, hi int) int

// centre rounds half up, so centre(0, 62) is 'V'.
func centre(lo, hi int) int {
	return (lo + hi + 1) / 2
}

// Midpoint returns the shortest fractional string strictly between a and b.
// a == "" is the smallest fraction; b == "" is the open upper end.
func Midpoint(a, b string) (string, error) {
	if err := checkFraction(a); err != nil {
		return "", keyError(a, err)
	}
	if err := checkFraction(b); err != nil {
		return "", keyError(b, err)
	}
	if b != "" && a >= b {
		return "", orderError(a, b)
	}
	return midpoint(a, b, centre), nil
}

// checkFraction returns the bare sentinel so callers can attach the key
// they were given.
func checkFraction(f string) error {
	for i := 0; i < len(f); i++ {
		if digitIndex(f[i]) < 0 {
			return ErrInvalidKey
		}
	}
	if strings.HasSuffix(f, "0") {
		return ErrTrailingZero
	}
	return nil
}

// midpoint assumes validated input with a < b when b is non-empty.
func midpoint(a, b string, pick pickFunc) string {
	var sb strings.Builder
	for {
		if b != "" {
			// Strip the common prefix, padding a with '0'. b never runs out
			// first because a < b and a has no trailing zero.
			i := 0
			for ; i < len(b); i++ {
				c := byte('0')
				if i < len(a) {
					c = a[i]
				}
				if c != b[i] {
					break
				}
			}
			sb.WriteString(b[:i])
			if i > len(a) {
				a = ""
			} else {
				a = a[i:]
			}
			b = b[i:]
		}

		digitA := 0
		if a != "" {
			digitA = digitIndex(a[0])
		}
		digitB := base
		if b != "" {
			digitB = digitIndex(b[0])
		}
		if digitB-digitA > 1 {
			sb.WriteByte(Digits[pick(digitA, digitB)])
			return sb.String()
		}

		// consecutive digits
		if len(b) > 1 {
			sb.WriteByte(b[0])
			return sb.String()
		}

		// b is empty or a single digit: keep a's digit and continue
		// towards the open end, e.g. ("1", "2") -> "1" + ("", "") -> "1V".
		sb.WriteByte(Digits[digitA])
		if a != "" {
			a = a[1:]
		}
		b = ""
	}
}
