package userdict

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *UserDict {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userdict.sqlite3")
	u, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { u.Close() })
	return u
}

func TestBumpInsertsAtDelta(t *testing.T) {
	u := openTemp(t)
	require.NoError(t, u.Bump("你好", 3))

	freq, ok, err := u.Get("你好")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3), freq)
}

func TestBumpAccumulates(t *testing.T) {
	u := openTemp(t)
	require.NoError(t, u.Bump("你好", 1))
	require.NoError(t, u.Bump("你好", 1))
	require.NoError(t, u.Bump("你好", 5))

	freq, ok, err := u.Get("你好")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), freq)
}

func TestBumpDefaultsDeltaToOne(t *testing.T) {
	u := openTemp(t)
	require.NoError(t, u.Bump("泥", 0))

	freq, _, err := u.Get("泥")
	require.NoError(t, err)
	require.Equal(t, uint64(1), freq)
}

func TestGetAbsentPhrase(t *testing.T) {
	u := openTemp(t)
	_, ok, err := u.Get("never committed")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIterAllLexicographicOrder(t *testing.T) {
	u := openTemp(t)
	require.NoError(t, u.Bump("zebra", 1))
	require.NoError(t, u.Bump("apple", 1))
	require.NoError(t, u.Bump("mango", 1))

	entries, err := u.IterAll()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"apple", "mango", "zebra"},
		[]string{entries[0].Phrase, entries[1].Phrase, entries[2].Phrase})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdict.sqlite3")
	u, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, u.Bump("hello", 4))
	require.NoError(t, u.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	freq, ok, err := reopened.Get("hello")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(4), freq)
}
