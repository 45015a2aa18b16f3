package fracdex

import (
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert := assert.New(t)

	test := func(a, b, exp string) {
		act, err := KeyBetween(a, b)
		assert.NoError(err, "KeyBetween(%q, %q)", a, b)
		assert.Equal(exp, act, "KeyBetween(%q, %q)", a, b)
	}

	test("", "", "a0")
	test("", "a0", "Zz")
	test("", "Zz", "Zy")
	test("a0", "", "a1")
	test("a1", "", "a2")
	test("a0", "a1", "a0V")
	test("a1", "a2", "a1V")
	test("a0V", "a1", "a0l")
	test("Zz", "a0", "ZzV")
	test("Zz", "a1", "a0")
	test("", "Y00", "Xzzz")
	test("bzz", "", "c000")
	test("a0", "a0V", "a0G")
	test("a0", "a0G", "a08")
	test("b125", "b129", "b127")
	test("a0", "a1V", "a1")
	test("Zz", "a01", "a0")
	test("", "a0V", "a0")
	test("", "b999", "b99")
	test("aV", "aV0V", "aV0G")
	test("", "A000000000000000000000000001", "A000000000000000000000000000V")
	test("zzzzzzzzzzzzzzzzzzzzzzzzzzy", "", "zzzzzzzzzzzzzzzzzzzzzzzzzzz")
	test("zzzzzzzzzzzzzzzzzzzzzzzzzzz", "", "zzzzzzzzzzzzzzzzzzzzzzzzzzzV")
}

func TestKeysErrors(t *testing.T) {
	assert := assert.New(t)

	test := func(a, b string, target error) {
		act, err := KeyBetween(a, b)
		assert.Equal("", act)
		assert.ErrorIs(err, target, "KeyBetween(%q, %q)", a, b)
	}

	test("", "A00000000000000000000000000", ErrReservedKey)
	test("a00", "", ErrTrailingZero)
	test("a00", "a1", ErrTrailingZero)
	test("0", "1", ErrInvalidHead)
	test("a", "", ErrInvalidKey)
	test("a!", "", ErrInvalidKey)
	test("a1", "a0", ErrOrder)
	test("a1", "a1", ErrOrder)

	_, err := KeyBetween("a1", "a0")
	assert.EqualError(err, "order keys out of order: a1 >= a0")

	_, err = KeyBetween("a00", "")
	var ke *KeyError
	if assert.ErrorAs(err, &ke) {
		assert.Equal("a00", ke.Key)
	}
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	for _, key := range []string{"a0", "Zz", "a0V", "b00", "A000000000000000000000000001", "zzzzzzzzzzzzzzzzzzzzzzzzzzzV"} {
		assert.NoError(Validate(key), key)
	}

	assert.ErrorIs(Validate(""), ErrInvalidKey)
	assert.ErrorIs(Validate("b0"), ErrInvalidKey)
	assert.ErrorIs(Validate("a1_"), ErrInvalidKey)
	assert.ErrorIs(Validate("-a"), ErrInvalidHead)
	assert.ErrorIs(Validate("a1V0"), ErrTrailingZero)
	assert.ErrorIs(Validate(smallestInt), ErrReservedKey)
}

func TestNKeys(t *testing.T) {
	assert := assert.New(t)

	test := func(a, b string, n uint, exp string) {
		act, err := NKeysBetween(a, b, n)
		assert.NoError(err)
		assert.Equal(exp, strings.Join(act, " "))
	}
	test("", "", 0, "")
	test("", "", 5, "a0 a1 a2 a3 a4")
	test("a4", "", 10, "a5 a6 a7 a8 a9 aA aB aC aD aE")
	test("", "a0", 5, "Zv Zw Zx Zy Zz")
	test("a0", "a5", 4, "a0G a0V a1 a2")
	test(
		"a0",
		"a2",
		20,
		"a04 a08 a0G a0K a0O a0V a0Z a0d a0l a0t a1 a14 a18 a1G a1O a1V a1Z a1d a1l a1t",
	)

	_, err := NKeysBetween("a2", "a1", 3)
	assert.ErrorIs(err, ErrOrder)
}

func TestNKeysMatchesKeyBetween(t *testing.T) {
	bounds := [][2]string{
		{"", ""},
		{"a0", ""},
		{"", "a0"},
		{"a0", "a1"},
		{"Zz", "a0"},
		{"a0", "a0V"},
		{"", "A000000000000000000000000001"},
		{"zzzzzzzzzzzzzzzzzzzzzzzzzzz", ""},
	}
	for _, bb := range bounds {
		one, err := KeyBetween(bb[0], bb[1])
		require.NoError(t, err)
		n, err := NKeysBetween(bb[0], bb[1], 1)
		require.NoError(t, err)
		assert.Equal(t, []string{one}, n, "bounds %q", bb)
	}
}

func TestNKeysOrdering(t *testing.T) {
	bounds := [][2]string{{"", ""}, {"a0", ""}, {"", "a0"}, {"a0", "a1"}, {"a0V", "a0l"}, {"Zz", "a01"}}
	for _, bb := range bounds {
		for _, n := range []uint{2, 3, 7, 64, 200} {
			keys, err := NKeysBetween(bb[0], bb[1], n)
			require.NoError(t, err)
			require.Len(t, keys, int(n))
			for i, k := range keys {
				require.NoError(t, Validate(k))
				if bb[0] != "" {
					assert.Greater(t, k, bb[0])
				}
				if bb[1] != "" {
					assert.Less(t, k, bb[1])
				}
				if i > 0 {
					assert.Less(t, keys[i-1], k)
				}
			}
		}
	}
}

func TestKeyBetweenRandomInsertions(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	keys := []string{}
	for range 2000 {
		i := r.Intn(len(keys) + 1)
		var a, b string
		if i > 0 {
			a = keys[i-1]
		}
		if i < len(keys) {
			b = keys[i]
		}
		k, err := KeyBetween(a, b)
		require.NoError(t, err)
		require.NoError(t, Validate(k))
		if a != "" {
			require.Greater(t, k, a)
		}
		if b != "" {
			require.Less(t, k, b)
		}

		again, err := KeyBetween(a, b)
		require.NoError(t, err)
		require.Equal(t, k, again)

		keys = slices.Insert(keys, i, k)
	}
	assert.True(t, slices.IsSorted(keys))
}

func TestKeyBetweenRepeatedFrontInsertStaysShort(t *testing.T) {
	a, b := "a0", "a1"
	for range 50 {
		k, err := KeyBetween(a, b)
		require.NoError(t, err)
		b = k
	}
	// Each halving towards a fixed neighbour costs about one digit per
	// six insertions.
	assert.LessOrEqual(t, len(b), 2+50/5)
}

func TestToFloat64Approx(t *testing.T) {
	assert := assert.New(t)

	test := func(key string, exp float64) {
		act, err := Float64Approx(key)
		assert.NoError(err)
		if exp == 0 {
			assert.Equal(exp, act, key)
		} else {
			assert.InEpsilon(exp, act, 1e-12, key)
		}
	}

	// span(n) counts the integers with 1..n digits after the head.
	span := func(n int) float64 {
		s := 0.0
		for k := 1; k <= n; k++ {
			s += math.Pow(62.0, float64(k))
		}
		return s
	}

	test("a0", 0.0)
	test("a1", 1.0)
	test("az", 61.0)
	test("b00", 62.0)
	test("b10", 124.0)
	test("c000", 62.0+62.0*62.0)
	test("z20000000000000000000000000", math.Pow(62.0, 25.0)*2.0+span(25))
	test("Zz", -1.0)
	test("Z1", -61.0)
	test("Z0", -62.0)
	test("Yzz", -63.0)
	test("Y10", 62.0-(62.0+62.0*62.0))
	test("Y00", -62.0-62.0*62.0)
	test("A20000000000000000000000000", math.Pow(62.0, 25.0)*2.0-span(26))

	test("a0V", 0.5)
	test("a00V", 31.0/math.Pow(62.0, 2.0))
	test("aVV", 31.5)
	test("ZzV", -0.5)
	test("ZVV", -30.5)

	testErr := func(key string, target error) {
		act, err := Float64Approx(key)
		assert.Equal(0.0, act)
		assert.ErrorIs(err, target, key)
	}
	testErr("", ErrInvalidKey)
	testErr("!", ErrInvalidHead)
	testErr("a400", ErrTrailingZero)
	testErr("a!", ErrInvalidKey)
}

func TestFloat64ApproxIsMonotone(t *testing.T) {
	keys, err := NKeysBetween("", "a0", 40)
	require.NoError(t, err)
	more, err := NKeysBetween("a0", "", 40)
	require.NoError(t, err)
	keys = append(append(keys, "a0"), more...)

	prev := math.Inf(-1)
	for _, k := range keys {
		f, err := Float64Approx(k)
		require.NoError(t, err)
		assert.Greater(t, f, prev, k)
		prev = f
	}

	// adjacent integer parts of different lengths
	for _, pair := range [][2]string{
		{"az", "b00"},
		{"bzz", "c000"},
		{"Yzz", "Z0"},
		{"Zz", "a0"},
		{"A00000000000000000000000001", "B0000000000000000000000000"},
	} {
		lo, err := Float64Approx(pair[0])
		require.NoError(t, err)
		hi, err := Float64Approx(pair[1])
		require.NoError(t, err)
		assert.Less(t, lo, hi, "%s < %s", pair[0], pair[1])
	}
}
