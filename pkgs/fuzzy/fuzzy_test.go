package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestIdentityAlwaysPresent(t *testing.T) {
	m := New()
	alts := m.Alternatives("ni")
	require.Len(t, alts, 1)
	require.Equal(t, Alternative{Text: "ni", Penalty: 0.0}, alts[0])
}

func TestSymmetric(t *testing.T) {
	m, err := ParseRules([]string{"zi=zhi:1.5"})
	require.NoError(t, err)

	ziAlts := m.Alternatives("zi")
	zhiAlts := m.Alternatives("zhi")

	require.True(t, containsAlt(ziAlts, "zhi", 1.5))
	require.True(t, containsAlt(zhiAlts, "zi", 1.5))
}

func TestParseRulesRejectsMalformed(t *testing.T) {
	cases := []string{"nopenalty", "a=b:notanumber", "=b:1.0", "a=:1.0", "a=b:0.5"}
	for _, c := range cases {
		_, err := ParseRules([]string{c})
		require.Error(t, err, "rule %q should be rejected", c)
	}
}

func TestPinyinDefaultsCoverStandardPairs(t *testing.T) {
	m, err := ParseRules(PinyinDefaults())
	require.NoError(t, err)

	got := m.Alternatives("zi")
	want := []Alternative{
		{Text: "zi", Penalty: 0.0},
		{Text: "zhi", Penalty: 1.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestZhuyinDefaultsEmpty(t *testing.T) {
	require.Empty(t, ZhuyinDefaults())
}

func containsAlt(alts []Alternative, text string, penalty float64) bool {
	for _, a := range alts {
		if a.Text == text && a.Penalty == penalty {
			return true
		}
	}
	return false
}
