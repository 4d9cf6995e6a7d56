package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/threat_radar/internal/geo/mapbox"
)

// fakeGeocoder 记录调用次数的假编码器
type fakeGeocoder struct {
	calls    int
	features []mapbox.Feature
	err      error

	reverseCalls    int
	reverseFeatures []mapbox.Feature
	reverseErr      error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, place string) ([]mapbox.Feature, error) {
	f.calls++
	return f.features, f.err
}

func (f *fakeGeocoder) ReverseCountry(ctx context.Context, lng, lat float64) ([]mapbox.Feature, error) {
	f.reverseCalls++
	return f.reverseFeatures, f.reverseErr
}

func TestGeocodeGazetteerHitNoNetwork(t *testing.T) {
	remote := &fakeGeocoder{}
	r := NewResolver(remote, nil, nil)

	loc, err := r.Geocode(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.NotNil(t, loc)
	require.Equal(t, "Tokyo", loc.PlaceName)
	require.Equal(t, "Japan", loc.Country)
	require.InDelta(t, 35.6762, loc.Latitude, 0.001)
	require.InDelta(t, 139.6503, loc.Longitude, 0.001)
	require.Zero(t, remote.calls, "gazetteer hit must not touch the network")

	// 大小写不敏感命中且结果一致
	again, err := r.Geocode(context.Background(), "tOkYo")
	require.NoError(t, err)
	require.Equal(t, loc, again)
}

func TestGeocodeRemoteFallback(t *testing.T) {
	remote := &fakeGeocoder{features: []mapbox.Feature{{
		Center:    [2]float64{2.1734, 41.3851},
		Text:      "Barcelona",
		PlaceType: []string{"place"},
		Context: []mapbox.ContextEntry{
			{ID: "region.123", Text: "Catalonia"},
			{ID: "country.456", Text: "Spain"},
		},
	}}}
	r := NewResolver(remote, nil, nil)

	loc, err := r.Geocode(context.Background(), "Barcelona")
	require.NoError(t, err)
	require.NotNil(t, loc)
	require.Equal(t, "Barcelona", loc.PlaceName)
	require.Equal(t, "Spain", loc.Country)
	require.Equal(t, "Catalonia", loc.Region)
	require.InDelta(t, 41.3851, loc.Latitude, 0.001)
	require.Equal(t, 1, remote.calls)
	// 国家已在上下文中，无需反向编码
	require.Zero(t, remote.reverseCalls)
}

func TestGeocodeReverseFillsMissingCountry(t *testing.T) {
	remote := &fakeGeocoder{
		features: []mapbox.Feature{{
			Center:    [2]float64{45.3182, 2.0469},
			Text:      "Baidoa",
			PlaceType: []string{"place"},
		}},
		reverseFeatures: []mapbox.Feature{{
			Text:      "Somalia",
			PlaceType: []string{"country"},
		}},
	}
	r := NewResolver(remote, nil, nil)

	loc, err := r.Geocode(context.Background(), "Baidoa")
	require.NoError(t, err)
	require.Equal(t, "Baidoa", loc.PlaceName)
	require.Equal(t, "Somalia", loc.Country)
	require.Equal(t, 1, remote.reverseCalls)
}

func TestGeocodeReverseFailureKeepsLocation(t *testing.T) {
	remote := &fakeGeocoder{
		features: []mapbox.Feature{{
			Center:    [2]float64{45.3182, 2.0469},
			Text:      "Baidoa",
			PlaceType: []string{"place"},
		}},
		reverseErr: errors.New("connection refused"),
	}
	r := NewResolver(remote, nil, nil)

	loc, err := r.Geocode(context.Background(), "Baidoa")
	require.NoError(t, err)
	require.NotNil(t, loc)
	require.Equal(t, "Baidoa", loc.PlaceName)
	require.Empty(t, loc.Country)
}

func TestGeocodeCountryFeatureUsesOwnName(t *testing.T) {
	remote := &fakeGeocoder{features: []mapbox.Feature{{
		Center:    [2]float64{9.5018, 56.2639},
		Text:      "Denmark",
		PlaceType: []string{"country"},
	}}}
	r := NewResolver(remote, nil, nil)

	loc, err := r.Geocode(context.Background(), "Denmark")
	require.NoError(t, err)
	require.Equal(t, "Denmark", loc.Country)
}

func TestGeocodeUnresolvableReturnsNil(t *testing.T) {
	r := NewResolver(&fakeGeocoder{}, nil, nil)
	loc, err := r.Geocode(context.Background(), "Qwertyville")
	require.NoError(t, err)
	require.Nil(t, loc)
}

func TestGeocodeNetworkFailureReturnsNil(t *testing.T) {
	r := NewResolver(&fakeGeocoder{err: errors.New("connection refused")}, nil, nil)
	loc, err := r.Geocode(context.Background(), "Somewhereville")
	require.NoError(t, err)
	require.Nil(t, loc)
}

func TestGeocodeWithoutRemote(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	loc, err := r.Geocode(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.NotNil(t, loc)

	loc, err = r.Geocode(context.Background(), "Qwertyville")
	require.NoError(t, err)
	require.Nil(t, loc)
}

func TestExtractCandidates(t *testing.T) {
	text := "Heavy fighting erupted near Bakhmut as shelling continued in Donetsk region. The Ukraine government condemned the attack on Monday."
	candidates := extractCandidates(text)

	require.Contains(t, candidates, "Bakhmut")
	require.Contains(t, candidates, "Donetsk")
	require.Contains(t, candidates, "Ukraine")
	// 时间词被黑名单挡掉
	require.NotContains(t, candidates, "Monday")
}

func TestCandidateBlacklistAndAcronyms(t *testing.T) {
	require.False(t, viableCandidate("NATO"))
	require.False(t, viableCandidate("UN"))
	require.False(t, viableCandidate("Islamic"))
	require.False(t, viableCandidate("December"))
	require.False(t, viableCandidate("Xi"))
	require.True(t, viableCandidate("Kharkiv"))
	require.True(t, viableCandidate("New Delhi"))
}

func TestResolveFromTextDedupAndLimit(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	text := "Explosions in Kyiv and strikes near Kharkiv. Officials in kyiv said fighting also reached Odesa and Moscow."

	locs := r.ResolveFromText(context.Background(), text, "", 3)
	require.LessOrEqual(t, len(locs), 3)

	seen := map[string]bool{}
	for _, loc := range locs {
		key := loc.PlaceName
		require.False(t, seen[key], "duplicate place name %q", key)
		seen[key] = true
	}
	require.NotEmpty(t, locs)
	require.Equal(t, "Kyiv", locs[0].PlaceName)
}

func TestResolveFromTextSkipsFailedCandidates(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	// Blorpstadt 无法解析，但不应中断后续 Tokyo 的解析
	text := "Chaos in Blorpstadt as crowds fled. Relief teams arrived from Tokyo overnight."

	locs := r.ResolveFromText(context.Background(), text, "", 3)
	require.Len(t, locs, 1)
	require.Equal(t, "Tokyo", locs[0].PlaceName)
}
