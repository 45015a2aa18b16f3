// Package fracdex generates fractional index keys: strings whose
// lexicographic order is the order of the items they are attached to, and
// between any two of which a new key can always be generated.
//
// A key is an integer part, whose length is encoded by its first character
// (a..z for lengths 2..27, Z..A for the negative range), followed by an
// optional base-62 fractional part that never ends in '0'.
package fracdex

// Validate reports whether key is a well-formed order key.
func Validate(key string) error {
	if key == smallestInt {
		return keyError(key, ErrReservedKey)
	}
	i, err := IntegerPart(key)
	if err != nil {
		return err
	}
	if err := ValidateInteger(i); err != nil {
		return keyError(key, ErrInvalidKey)
	}
	if err := checkFraction(key[len(i):]); err != nil {
		return keyError(key, err)
	}
	return nil
}

// KeyBetween returns a key that sorts lexicographically between a and b.
// An empty a means the start of the key space and an empty b its end.
// Malformed bounds yield a *KeyError; a >= b yields ErrOrder.
func KeyBetween(a, b string) (string, error) {
	return keyBetween(a, b, centre)
}

func keyBetween(a, b string, pick pickFunc) (string, error) {
	if a != "" {
		if err := Validate(a); err != nil {
			return "", err
		}
	}
	if b != "" {
		if err := Validate(b); err != nil {
			return "", err
		}
	}
	if a != "" && b != "" && a >= b {
		return "", orderError(a, b)
	}

	if a == "" {
		if b == "" {
			return Zero, nil
		}
		ib, _ := IntegerPart(b)
		fb := b[len(ib):]
		if ib == smallestInt {
			return ib + midpoint("", fb, pick), nil
		}
		if ib < b {
			return ib, nil
		}
		res, err := DecrementInteger(ib)
		if err != nil {
			return "", err
		}
		if res == "" {
			return "", ErrRangeUnderflow
		}
		return res, nil
	}

	ia, _ := IntegerPart(a)
	fa := a[len(ia):]

	if b == "" {
		i, err := IncrementInteger(ia)
		if err != nil {
			return "", err
		}
		if i == "" {
			return ia + midpoint(fa, "", pick), nil
		}
		return i, nil
	}

	ib, _ := IntegerPart(b)
	fb := b[len(ib):]
	if ia == ib {
		return ia + midpoint(fa, fb, pick), nil
	}
	i, err := IncrementInteger(ia)
	if err != nil {
		return "", err
	}
	if i == "" {
		return "", ErrRangeOverflow
	}
	if i < b {
		return i, nil
	}
	return ia + midpoint(fa, "", pick), nil
}

// NKeysBetween returns n ascending keys that sort between a and b, with
// the same bound rules as KeyBetween. n == 0 yields an empty slice.
func NKeysBetween(a, b string, n uint) ([]string, error) {
	return nKeysBetween(a, b, n, centre)
}

func nKeysBetween(a, b string, n uint, pick pickFunc) ([]string, error) {
	if n == 0 {
		return []string{}, nil
	}
	if n == 1 {
		c, err := keyBetween(a, b, pick)
		if err != nil {
			return nil, err
		}
		return []string{c}, nil
	}

	// Open ends: step outwards one key at a time so keys stay short.
	if b == "" {
		c, err := keyBetween(a, b, pick)
		if err != nil {
			return nil, err
		}
		result := make([]string, 0, n)
		result = append(result, c)
		for i := uint(1); i < n; i++ {
			c, err = keyBetween(c, b, pick)
			if err != nil {
				return nil, err
			}
			result = append(result, c)
		}
		return result, nil
	}
	if a == "" {
		c, err := keyBetween(a, b, pick)
		if err != nil {
			return nil, err
		}
		result := make([]string, 0, n)
		result = append(result, c)
		for i := uint(1); i < n; i++ {
			c, err = keyBetween(a, c, pick)
			if err != nil {
				return nil, err
			}
			result = append(result, c)
		}
		reverse(result)
		return result, nil
	}

	mid := n / 2
	c, err := keyBetween(a, b, pick)
	if err != nil {
		return nil, err
	}
	left, err := nKeysBetween(a, c, mid, pick)
	if err != nil {
		return nil, err
	}
	right, err := nKeysBetween(c, b, n-mid-1, pick)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, n)
	result = append(result, left...)
	result = append(result, c)
	result = append(result, right...)
	return result, nil
}

// Float64Approx converts a key as generated by KeyBetween to a float64.
// Because the range of keys is far larger than float64 can represent
// accurately, this is necessarily approximate. But for many use cases it should
// be, as they say, close enough for jazz.
//
// The mapping is monotone across integer-part lengths: Zz is -1, a0 is 0,
// a0V is 0.5 and b00, the successor of az, is 62.
func Float64Approx(key string) (float64, error) {
	if err := Validate(key); err != nil {
		return 0, err
	}
	ip, _ := IntegerPart(key)

	digs := ip[1:]
	rv := 0.0
	for i := 0; i < len(digs); i++ {
		rv = rv*fbase + float64(digitIndex(digs[i]))
	}

	// offset counts the integers of every shorter positive length.
	pow, offset := 1.0, 0.0
	for i := 1; i < len(digs); i++ {
		pow *= fbase
		offset += pow
	}
	if ip[0] >= 'a' {
		rv += offset
	} else {
		rv -= offset + pow*fbase
	}

	fp := key[len(ip):]
	scale := 1.0
	for i := 0; i < len(fp); i++ {
		scale /= fbase
		rv += float64(digitIndex(fp[i])) * scale
	}
	return rv, nil
}

func reverse(values []string) {
	for i := 0; i < len(values)/2; i++ {
		j := len(values) - i - 1
		values[i], values[j] = values[j], values[i]
	}
}
