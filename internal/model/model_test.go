package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/threat_radar/internal/model"
)

func TestParseCategory(t *testing.T) {
	c, err := model.ParseCategory("  Terrorism ")
	require.NoError(t, err)
	require.Equal(t, model.CategoryTerrorism, c)

	_, err = model.ParseCategory("weather")
	require.Error(t, err)
}

func TestParseThreatLevel(t *testing.T) {
	l, err := model.ParseThreatLevel("CRITICAL")
	require.NoError(t, err)
	require.Equal(t, model.ThreatCritical, l)

	_, err = model.ParseThreatLevel("severe")
	require.Error(t, err)
}

func TestThreatPriorityOrdering(t *testing.T) {
	require.Equal(t, 0, model.ThreatCritical.Priority())
	require.Equal(t, 4, model.ThreatInfo.Priority())
	require.Equal(t, 5, model.ThreatLevel("bogus").Priority())

	prev := -1
	for _, l := range model.ThreatLevels {
		require.Greater(t, l.Priority(), prev)
		prev = l.Priority()
	}
}

func TestDeliverableReady(t *testing.T) {
	require.True(t, model.Deliverable{Status: "completed", URL: "https://x/report.csv"}.Ready())
	require.False(t, model.Deliverable{Status: "completed"}.Ready())
	require.False(t, model.Deliverable{Status: "running", URL: "https://x/report.csv"}.Ready())
}

func TestChunkTerminal(t *testing.T) {
	require.True(t, model.ConflictStreamChunk{Type: model.ChunkDone}.Terminal())
	require.True(t, model.ConflictStreamChunk{Type: model.ChunkError}.Terminal())
	require.False(t, model.ConflictStreamChunk{Type: model.ChunkCurrentContent}.Terminal())
}

func TestTaskStatusTerminal(t *testing.T) {
	require.True(t, model.TaskCompleted.Terminal())
	require.True(t, model.TaskFailed.Terminal())
	require.False(t, model.TaskQueued.Terminal())
	require.False(t, model.TaskRunning.Terminal())
}
