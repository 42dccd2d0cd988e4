package fsa

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, pairs map[string]uint64, order []string) *Machine {
	t.Helper()

	b := NewBuilder()
	for _, k := range order {
		require.NoError(t, b.Insert(k, pairs[k]))
	}

	return b.Finish()
}

func TestInsertOutOfOrder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("bb", 1))

	err := b.Insert("aa", 2)
	require.ErrorIs(t, err, ErrOutOfOrder)
}

func TestInsertDuplicate(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("aa", 1))

	err := b.Insert("aa", 2)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGet(t *testing.T) {
	m := build(t, map[string]uint64{"a": 1, "ab": 2, "abcd": 3}, []string{"a", "ab", "abcd"})

	for key, want := range map[string]uint64{"a": 1, "ab": 2, "abcd": 3} {
		got, ok := m.Get(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, want, got, "key %q", key)
	}

	// Traversable paths that are not complete keys must not match.
	for _, key := range []string{"", "b", "abc", "abcde", "aa"} {
		_, ok := m.Get(key)
		assert.False(t, ok, "key %q", key)
	}

	assert.Equal(t, 3, m.Len())
}

func TestLongestPrefixReturnsLongestKeyNotLongestPath(t *testing.T) {
	m := build(t, map[string]uint64{"a": 1, "ab": 2, "abcd": 3}, []string{"a", "ab", "abcd"})

	// "abc" is traversable but only "ab" is a key.
	n, val, ok := m.LongestPrefix("abcx")
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint64(2), val)

	n, val, ok = m.LongestPrefix("abcd")
	require.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint64(3), val)

	// Later accepting states overwrite earlier bests.
	n, val, ok = m.LongestPrefix("ab")
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint64(2), val)
}

func TestLongestPrefixNoMatch(t *testing.T) {
	m := build(t, map[string]uint64{"abc": 1}, []string{"abc"})

	for _, input := range []string{"", "x", "ab", "abx"} {
		_, _, ok := m.LongestPrefix(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestEmptyKey(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("", 7))
	require.NoError(t, b.Insert("a", 1))
	m := b.Finish()

	val, ok := m.Get("")
	require.True(t, ok)
	assert.Equal(t, uint64(7), val)

	// The walk only reports matches that consume at least one byte.
	n, val, ok := m.LongestPrefix("ab")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(1), val)

	_, _, ok = m.LongestPrefix("b")
	assert.False(t, ok)
}

func TestEmptyMachine(t *testing.T) {
	m := NewBuilder().Finish()

	assert.Equal(t, 0, m.Len())

	_, _, ok := m.LongestPrefix("anything")
	assert.False(t, ok)

	_, found := m.Get("anything")
	assert.False(t, found)
}

func TestSuffixSharing(t *testing.T) {
	// Identical suffixes with identical payloads fold into shared states:
	// a plain trie for these keys would need 11 states.
	m := build(t, map[string]uint64{"taxed": 7, "waxed": 7}, []string{"taxed", "waxed"})

	assert.Less(t, m.NumStates(), 11)

	for _, key := range []string{"taxed", "waxed"} {
		val, ok := m.Get(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, uint64(7), val)
	}
}

func TestLargeSortedSet(t *testing.T) {
	b := NewBuilder()
	keys := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		keys = append(keys, fmt.Sprintf("key%04d", i))
	}

	for i, k := range keys {
		require.NoError(t, b.Insert(k, uint64(i)))
	}

	m := b.Finish()
	require.Equal(t, len(keys), m.Len())

	for i, k := range keys {
		val, ok := m.Get(k)
		require.True(t, ok, "key %q", k)
		require.Equal(t, uint64(i), val)
	}
}

func TestLongestPrefixAllocFree(t *testing.T) {
	m := build(t, map[string]uint64{"inter": 1, "interessant": 2}, []string{"inter", "interessant"})

	allocs := testing.AllocsPerRun(100, func() {
		_, _, _ = m.LongestPrefix("interessantes")
	})
	assert.Zero(t, allocs)
}
