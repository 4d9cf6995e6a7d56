package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/threat_radar/internal/geo"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

func newFallback() *KeywordClassifier {
	// geocoder/picker 均为 nil：只走速查表，零网络
	return NewKeywordClassifier(geo.NewResolver(nil, nil, nil))
}

func TestKeywordClassifyDisasterTokyo(t *testing.T) {
	c := newFallback()

	result, err := c.Classify(context.Background(),
		"Earthquake strikes Tokyo",
		"Strong tremors were felt in Tokyo after a magnitude 6.1 earthquake. Several buildings reported damage.")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryDisaster, result.Category)
	require.NotNil(t, result.Location)
	require.Equal(t, "Tokyo", result.Location.PlaceName)
	require.Equal(t, "Japan", result.Location.Country)
	require.InDelta(t, 35.6762, result.Location.Latitude, 0.001)
	require.InDelta(t, 139.6503, result.Location.Longitude, 0.001)
}

func TestKeywordClassifyTerrorism(t *testing.T) {
	c := newFallback()

	result, err := c.Classify(context.Background(),
		"Suicide bombing kills dozens in Baghdad",
		"A suicide bombing at a market in Baghdad left many killed. The terrorist group claimed responsibility for the explosion.")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryTerrorism, result.Category)
	require.NotEqual(t, dm.ThreatInfo, result.ThreatLevel)
	require.NotNil(t, result.Location)
	require.Equal(t, "Baghdad", result.Location.PlaceName)
}

func TestKeywordClassifyDefaults(t *testing.T) {
	c := newFallback()

	result, err := c.Classify(context.Background(),
		"Quiet day reported", "Nothing notable happened anywhere today.")
	require.NoError(t, err)
	require.Equal(t, defaultCategory, result.Category)
	require.Equal(t, defaultThreat, result.ThreatLevel)
	require.Nil(t, result.Location)
}

func TestKeywordClassifyEnumMembership(t *testing.T) {
	c := newFallback()

	inputs := [][2]string{
		{"Ransomware cripples hospital network", "A cyberattack encrypted systems. Hackers demanded payment."},
		{"Pirates hijack tanker", "A hijacked vessel was reported in the Gulf of Aden. Piracy is on the rise."},
		{"Fuel prices surge", "Crude oil jumped after OPEC announced cuts."},
		{"", ""},
	}

	for _, in := range inputs {
		result, err := c.Classify(context.Background(), in[0], in[1])
		require.NoError(t, err)

		_, catErr := dm.ParseCategory(string(result.Category))
		require.NoError(t, catErr, "category %q not in closed enum", result.Category)
		_, lvlErr := dm.ParseThreatLevel(string(result.ThreatLevel))
		require.NoError(t, lvlErr, "threat level %q not in closed enum", result.ThreatLevel)
	}
}

func TestKeywordTieBreakPrefersSeverity(t *testing.T) {
	c := newFallback()

	// "terrorist" 与 "protest" 各命中一次；裁决顺序应判给 terrorism
	result, err := c.Classify(context.Background(), "",
		"A terrorist cell was linked to the protest movement.")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryTerrorism, result.Category)
}

func TestKeywordTitleWeighsDouble(t *testing.T) {
	c := newFallback()

	// 标题一次 protest (×2) 应压过正文一次 inflation
	result, err := c.Classify(context.Background(),
		"Protest grips capital", "Officials worry about inflation.")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryProtest, result.Category)
}
