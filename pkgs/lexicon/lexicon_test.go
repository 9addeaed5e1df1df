package lexicon

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/store"
)

func sampleGroups() map[string]Group {
	return map[string]Group{
		"ni_hao": {{Text: "你好", Token: 1, Freq: 500}},
		"ni":     {{Text: "你", Token: 2, Freq: 900}, {Text: "泥", Token: 3, Freq: 10}},
		"hao":    {{Text: "好", Token: 4, Freq: 800}},
	}
}

func TestLookupExact(t *testing.T) {
	lex, err := Build(sampleGroups())
	require.NoError(t, err)

	g, ok := lex.Lookup("ni_hao")
	require.True(t, ok)
	require.Equal(t, Group{{Text: "你好", Token: 1, Freq: 500}}, g)

	_, ok = lex.Lookup("missing")
	require.False(t, ok)
}

func TestLookupPrefixOrderedLexicographically(t *testing.T) {
	lex, err := Build(sampleGroups())
	require.NoError(t, err)

	got := lex.LookupPrefix("ni")
	require.Len(t, got, 2)
	require.Equal(t, "ni", got[0].Key)
	require.Equal(t, "ni_hao", got[1].Key)
}

func TestBuildRejectsEmptyGroup(t *testing.T) {
	_, err := Build(map[string]Group{"x": {}})
	require.Error(t, err)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	lex, err := Build(sampleGroups())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, lex.Write(&buf))

	loaded, err := Load(&buf, lex.SortedKeys())
	require.NoError(t, err)

	g, ok := loaded.Lookup("ni")
	require.True(t, ok)
	require.Equal(t, Group{{Text: "你", Token: 2, Freq: 900}, {Text: "泥", Token: 3, Freq: 10}}, g)
}

func TestJoinKey(t *testing.T) {
	require.Equal(t, "ni_hao", JoinKey([]string{"ni", "hao"}))
}

func TestLoadRejectsEmptyEntryText(t *testing.T) {
	blob, err := cbor.Marshal(Group{{Text: "", Token: 1, Freq: 5}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.Write(&buf, "lexicon", [][]byte{blob}))

	_, err = Load(&buf, []string{"ni"})
	require.Error(t, err)
	require.True(t, errcode.Is(err, errcode.CorruptArtifact))
}

func TestLoadRejectsKeyCountMismatch(t *testing.T) {
	lex, err := Build(sampleGroups())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, lex.Write(&buf))

	_, err = Load(&buf, []string{"only_one_key"})
	require.Error(t, err)
	require.True(t, errcode.Is(err, errcode.CorruptArtifact))
}
