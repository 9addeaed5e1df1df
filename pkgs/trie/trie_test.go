package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	tr := New([]string{"ni", "hao", "zi", "zhi"})
	require.True(t, tr.Contains("ni"))
	require.True(t, tr.Contains("zhi"))
	require.False(t, tr.Contains("z"))
	require.False(t, tr.Contains(""))
	require.False(t, tr.Contains("nope"))
}

func TestLongestPrefixes(t *testing.T) {
	tr := New([]string{"zi", "zhi", "z"})
	ends := tr.LongestPrefixes("zhi", 0)
	require.Equal(t, []int{1, 3}, ends) // "z" (len1) and "zhi" (len3); "zh" is not a syllable
}

func TestLongestPrefixesOutOfRange(t *testing.T) {
	tr := New([]string{"ni"})
	require.Nil(t, tr.LongestPrefixes("ni", 2))
}

func TestHasPrefix(t *testing.T) {
	tr := New([]string{"zhi"})
	require.True(t, tr.HasPrefix("z"))
	require.True(t, tr.HasPrefix("zh"))
	require.False(t, tr.HasPrefix("x"))
}
