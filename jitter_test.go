package fracdex

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJitterInterfaces(t *testing.T) {
	noJitter := NoJitter{}
	for range 100 {
		assert.Equal(t, 0, noJitter.IntnRange(-3, 3))
	}

	randJitter := NewRandJitter(42)
	ranges := [][]int{{1, 5}, {10, 20}, {0, 1}, {5, 5}, {-4, 4}}
	for _, rng := range ranges {
		lo, hi := rng[0], rng[1]
		for range 100 {
			val := randJitter.IntnRange(lo, hi)
			assert.GreaterOrEqual(t, val, lo)
			assert.LessOrEqual(t, val, hi)
		}
	}

	assert.Equal(t, 7, RandJitter{}.IntnRange(7, 7))
}

func TestKeyBetweenJitterNoJitterMatchesKeyBetween(t *testing.T) {
	bounds := [][2]string{{"", ""}, {"a0", ""}, {"", "a0"}, {"a0", "a1"}, {"a0", "a0V"}, {"Zz", "a0"}}
	for _, bb := range bounds {
		exp, err := KeyBetween(bb[0], bb[1])
		require.NoError(t, err)
		act, err := KeyBetweenJitter(bb[0], bb[1], NoJitter{}, 5)
		require.NoError(t, err)
		assert.Equal(t, exp, act)

		act, err = KeyBetweenJitter(bb[0], bb[1], NewRandJitter(1), 0)
		require.NoError(t, err)
		assert.Equal(t, exp, act)
	}
}

func TestKeyBetweenJitterInvariants(t *testing.T) {
	bounds := [][2]string{{"a0", "a1"}, {"a0", "a0z"}, {"a0V", "a0W"}, {"Zz", "a0"}, {"a0", "a01"}}
	for _, bb := range bounds {
		for i := range 100 {
			key, err := KeyBetweenJitter(bb[0], bb[1], NewRandJitter(int64(i)), 100)
			require.NoError(t, err)
			assert.NoError(t, Validate(key))
			assert.False(t, strings.HasSuffix(key[2:], "0"), key)
			assert.Greater(t, key, bb[0])
			assert.Less(t, key, bb[1])
		}
	}
}

func TestKeyBetweenJitterVariation(t *testing.T) {
	results := make(map[string]bool)
	for i := range 50 {
		key, err := KeyBetweenJitter("a0", "a0z", NewRandJitter(int64(i)), 5)
		require.NoError(t, err)
		results[key] = true
	}
	assert.Greater(t, len(results), 1)
	for key := range results {
		// the centre digit is V (31); a window of 5 spans Q..a
		assert.GreaterOrEqual(t, key, "a0Q")
		assert.LessOrEqual(t, key, "a0a")
	}
}

func TestKeyBetweenJitterConsistency(t *testing.T) {
	key1, err := KeyBetweenJitter("a0", "a1", RandJitter{R: rand.New(rand.NewSource(42))}, 4)
	require.NoError(t, err)
	key2, err := KeyBetweenJitter("a0", "a1", RandJitter{R: rand.New(rand.NewSource(42))}, 4)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestJitterNarrowInterval(t *testing.T) {
	// between "1" and "3" only "2" is available
	results := make(map[string]bool)
	for i := range 50 {
		results[midpoint("1", "3", jitterPick(NewRandJitter(int64(i)), 10))] = true
	}
	assert.Equal(t, map[string]bool{"2": true}, results)
}

func TestNKeysBetweenJitter(t *testing.T) {
	for iteration := range 10 {
		keys, err := NKeysBetweenJitter("a0", "a1", 25, NewRandJitter(int64(iteration)), 3)
		require.NoError(t, err)
		require.Len(t, keys, 25)
		for i, key := range keys {
			assert.NoError(t, Validate(key))
			assert.Greater(t, key, "a0")
			assert.Less(t, key, "a1")
			if i > 0 {
				assert.Less(t, keys[i-1], key)
			}
		}
	}

	exp, err := NKeysBetween("a0", "a2", 20)
	require.NoError(t, err)
	act, err := NKeysBetweenJitter("a0", "a2", 20, NoJitter{}, 3)
	require.NoError(t, err)
	assert.Equal(t, exp, act)
}
