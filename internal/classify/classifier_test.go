package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	dm "github.com/iWorld-y/threat_radar/internal/model"
)

type stubClassifier struct {
	result *Classification
	err    error
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, title, content string) (*Classification, error) {
	s.calls++
	return s.result, s.err
}

func TestEnginePrefersAI(t *testing.T) {
	ai := &stubClassifier{result: &Classification{Category: dm.CategoryCyber, ThreatLevel: dm.ThreatHigh}}
	fallback := &stubClassifier{result: &Classification{Category: dm.CategoryDiplomatic, ThreatLevel: dm.ThreatLow}}

	engine := NewEngine(ai, fallback)
	result, err := engine.Classify(context.Background(), "t", "c")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryCyber, result.Category)
	require.Equal(t, 1, ai.calls)
	require.Equal(t, 0, fallback.calls)
}

func TestEngineFallsBackOnAIError(t *testing.T) {
	ai := &stubClassifier{err: errors.New("rate limited")}
	fallback := &stubClassifier{result: &Classification{Category: dm.CategoryConflict, ThreatLevel: dm.ThreatMedium}}

	engine := NewEngine(ai, fallback)
	result, err := engine.Classify(context.Background(), "t", "c")
	require.NoError(t, err, "AI errors must be absorbed, never propagated")
	require.Equal(t, dm.CategoryConflict, result.Category)
	require.Equal(t, 1, ai.calls)
	require.Equal(t, 1, fallback.calls)
}

func TestEngineWithoutAI(t *testing.T) {
	fallback := &stubClassifier{result: &Classification{Category: dm.CategoryProtest, ThreatLevel: dm.ThreatLow}}

	engine := NewEngine(nil, fallback)
	result, err := engine.Classify(context.Background(), "t", "c")
	require.NoError(t, err)
	require.Equal(t, dm.CategoryProtest, result.Category)
	require.Equal(t, 1, fallback.calls)
}
