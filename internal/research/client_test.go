package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dm "github.com/iWorld-y/threat_radar/internal/model"
)

func TestCreateRejectsEmptyTopic(t *testing.T) {
	c := NewClient("key", "http://unused.invalid")
	_, err := c.Create(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyTopic)
}

func TestCreateReturnsTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/tasks", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body["query"], "Somalia")
		require.Equal(t, "deep_research", body["mode"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"task-42"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	id, err := c.Create(context.Background(), "maritime piracy off Somalia")
	require.NoError(t, err)
	require.Equal(t, "task-42", id)
}

func TestPollMapsWireSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks/task-42", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"status": "running",
			"progress": {"current_step": 3, "total_steps": 10},
			"sources": [{"title": "Report", "url": "https://s.example.org/r"}],
			"deliverables": [{"type": "report", "title": "Dossier", "url": "", "status": "pending"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	snap, err := c.Poll(context.Background(), "task-42")
	require.NoError(t, err)
	require.Equal(t, dm.TaskRunning, snap.Status)
	require.False(t, snap.Status.Terminal())
	require.NotNil(t, snap.Progress)
	require.Equal(t, 3, snap.Progress.CurrentStep)
	require.Len(t, snap.Sources, 1)
	require.Len(t, snap.Deliverables, 1)
	require.False(t, snap.Deliverables[0].Ready())
}

func TestPollNormalizesUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "warming_up"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	snap, err := c.Poll(context.Background(), "task-1")
	require.NoError(t, err)
	require.Equal(t, dm.TaskRunning, snap.Status)
}

func TestWaitToCompletionStopsAtTerminal(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		if n < 3 {
			_, _ = w.Write([]byte(`{"status": "running"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status": "failed", "error": "model refused"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	snap, err := c.WaitToCompletion(context.Background(), "task-1", 10*time.Millisecond, 20)
	require.NoError(t, err)
	require.Equal(t, dm.TaskFailed, snap.Status)
	require.Equal(t, "model refused", snap.Error)
	// 终态后立即停，不会耗满轮询次数
	require.Equal(t, int32(3), polls.Load())
}

func TestWaitToCompletionToleratesTransientFailures(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"status": "completed", "output": "# Dossier", "pdf_url": "https://s.example.org/d.pdf"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	snap, err := c.WaitToCompletion(context.Background(), "task-1", 10*time.Millisecond, 20)
	require.NoError(t, err)
	require.Equal(t, dm.TaskCompleted, snap.Status)
	require.Equal(t, "# Dossier", snap.Output)
	require.Equal(t, int32(2), polls.Load())
}

func TestWaitToCompletionSynthesizesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "running", "progress": {"current_step": 7, "total_steps": 10}}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)
	snap, err := c.WaitToCompletion(context.Background(), "task-1", time.Millisecond, 4)
	require.NoError(t, err, "attempt exhaustion must synthesize a result, not error")
	require.Equal(t, dm.TaskFailed, snap.Status)
	require.Contains(t, snap.Error, "timed out after 4 poll attempts")
	// 携带最后一次成功快照的进度
	require.NotNil(t, snap.Progress)
	require.Equal(t, 7, snap.Progress.CurrentStep)
}

func TestWaitToCompletionHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "running"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("key", srv.URL)
	_, err := c.WaitToCompletion(ctx, "task-1", time.Hour, 5)
	require.ErrorIs(t, err, context.Canceled)
}
