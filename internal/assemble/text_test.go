package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	in := "Skip to main content   Clashes erupted\n\noutside the parliament. Accept all cookies Subscribe to our newsletter"
	require.Equal(t, "Clashes erupted outside the parliament.", CleanText(in))
	require.Equal(t, "", CleanText(""))
	require.Equal(t, "", CleanText("   \n\t "))
}

func TestGenericTitle(t *testing.T) {
	generic := []string{
		"Security Threats",
		"security threats 2024",
		"Global Security Overview",
		"Travel Advisory",
		"Breaking News | CNN",
		"Topics",
		"Home - Example Site",
	}
	for _, title := range generic {
		require.True(t, GenericTitle(title), "expected generic: %q", title)
	}

	specific := []string{
		"Security forces clash with protesters in Lima",
		"Earthquake strikes Tokyo",
		"Pipeline explosion disrupts gas supply",
	}
	for _, title := range specific {
		require.False(t, GenericTitle(title), "expected specific: %q", title)
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "Flooding flooding flooding displaced thousands. Flooding in the delta region displaced residents, officials said."
	keywords := ExtractKeywords(text, 3, 4)
	require.Len(t, keywords, 3)
	require.Equal(t, "flooding", keywords[0])
	require.Contains(t, keywords, "displaced")
	require.NotContains(t, keywords, "the")
	require.NotContains(t, keywords, "said")

	require.Nil(t, ExtractKeywords("", 5, 4))
}

func TestExtractEntities(t *testing.T) {
	text := "Diplomats from the United Nations condemned the strikes. President Alvarez met the Red Cross in Geneva, and the United Nations repeated the call."
	entities := ExtractEntities(text, 6)
	require.Contains(t, entities, "United Nations")
	require.Contains(t, entities, "President Alvarez")
	require.Contains(t, entities, "Red Cross")
	// 单个大写词视为句首噪声，保序去重
	require.NotContains(t, entities, "Geneva")
	require.Equal(t, 1, countOf(entities, "United Nations"))

	limited := ExtractEntities(text, 2)
	require.Len(t, limited, 2)
}

func countOf(items []string, want string) int {
	n := 0
	for _, item := range items {
		if item == want {
			n++
		}
	}
	return n
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "abc", TruncateRunes("abcdef", 3))
	require.Equal(t, "abc", TruncateRunes("abc", 10))
	require.Equal(t, "北京大", TruncateRunes("北京大学", 3))
}
