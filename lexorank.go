package fracdex

import (
	"fmt"
	"strconv"
	"strings"
)

// Bucket represents a logical grouping or namespace for lexoranks.
// It's implemented as a uint8, allowing for up to 256 different buckets.
type Bucket uint8

// First returns the rank of the first item placed in an empty bucket.
func (b Bucket) First() Lexorank {
	return Lexorank{bucket: b, key: Zero}
}

// Lexorank represents a lexicographically sortable rank within a bucket.
// It combines a bucket identifier with a fractional index key; ranks in
// different buckets are ordered by bucket first.
type Lexorank struct {
	bucket Bucket
	key    string
}

// NewLexorank creates a Lexorank, validating key.
func NewLexorank(bucket Bucket, key string) (Lexorank, error) {
	if err := Validate(key); err != nil {
		return Lexorank{}, err
	}
	return Lexorank{bucket: bucket, key: key}, nil
}

// ParseLexorank parses the "bucket|key" form produced by String.
func ParseLexorank(s string) (Lexorank, error) {
	bs, key, ok := strings.Cut(s, "|")
	if !ok {
		return Lexorank{}, fmt.Errorf("invalid lexorank %q: missing separator", s)
	}
	b, err := strconv.ParseUint(bs, 10, 8)
	if err != nil {
		return Lexorank{}, fmt.Errorf("invalid lexorank bucket %q: %w", bs, err)
	}
	return NewLexorank(Bucket(b), key)
}

// String returns "bucket|key", e.g. "1|a1".
func (rk Lexorank) String() string {
	return fmt.Sprintf("%d|%s", rk.bucket, rk.key)
}

// Bucket returns the bucket identifier for this lexorank.
func (rk Lexorank) Bucket() Bucket {
	return rk.bucket
}

// Key returns the fractional index key for this lexorank.
func (rk Lexorank) Key() string {
	return rk.key
}

// Compare returns -1, 0 or +1 depending on whether rk sorts before, equal
// to, or after other.
func (rk Lexorank) Compare(other Lexorank) int {
	switch {
	case rk.bucket < other.bucket:
		return -1
	case rk.bucket > other.bucket:
		return 1
	}
	return strings.Compare(rk.key, other.key)
}

// Between returns a rank in rk's bucket strictly between rk and next. A zero
// next means the end of the bucket.
func (rk Lexorank) Between(next Lexorank) (Lexorank, error) {
	if next.key != "" && next.bucket != rk.bucket {
		return Lexorank{}, fmt.Errorf("lexorank buckets differ: %d and %d", rk.bucket, next.bucket)
	}
	key, err := KeyBetween(rk.key, next.key)
	if err != nil {
		return Lexorank{}, err
	}
	return Lexorank{bucket: rk.bucket, key: key}, nil
}
