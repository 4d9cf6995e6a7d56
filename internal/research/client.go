package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/threat_radar/internal/logger"
	"github.com/iWorld-y/threat_radar/internal/metrics"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// ErrEmptyTopic 创建任务时缺少主题
var ErrEmptyTopic = errors.New("research topic must not be empty")

// Client 深度研究任务客户端
// 任务状态归远端所有，这里只持有只读快照
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建研究任务客户端
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createRequest struct {
	Query         string        `json:"query"`
	Mode          string        `json:"mode"`
	OutputFormats []string      `json:"output_formats"`
	Deliverables  []deliverable `json:"deliverables"`
}

type deliverable struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

type createResponse struct {
	ID string `json:"id"`
}

// statusResponse 远端任务状态的线上形态
type statusResponse struct {
	Status   string `json:"status"`
	Progress *struct {
		CurrentStep int `json:"current_step"`
		TotalSteps  int `json:"total_steps"`
	} `json:"progress"`
	Output       string `json:"output"`
	Sources      []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"sources"`
	Deliverables []struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		URL    string `json:"url"`
		Status string `json:"status"`
	} `json:"deliverables"`
	PDFURL string `json:"pdf_url"`
	Error  string `json:"error"`
}

// Create 创建一个报告生成任务，返回远端任务 ID
func (c *Client) Create(ctx context.Context, topic string) (string, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}

	reqBody := createRequest{
		Query:         fmt.Sprintf("Comprehensive security dossier: %s", topic),
		Mode:          "deep_research",
		OutputFormats: []string{"markdown", "pdf"},
		Deliverables: []deliverable{
			{Type: "report", Title: "Intelligence dossier"},
			{Type: "csv", Title: "Event data export"},
			{Type: "pptx", Title: "Briefing slides"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tasks", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("research api error (status %d): %s", res.StatusCode, string(raw))
	}

	var out createResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response failed: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("research api returned empty task id")
	}
	return out.ID, nil
}

// Poll 单次查询任务状态快照
func (c *Client) Poll(ctx context.Context, taskID string) (*dm.DeepResearchTask, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/tasks/"+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	metrics.ResearchPolls.Inc()

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("research api error (status %d): %s", res.StatusCode, string(raw))
	}

	var out statusResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	return snapshotFromWire(taskID, out), nil
}

// WaitToCompletion 轮询到终态或次数耗尽
// 瞬时失败（网络、5xx、解码）视作"下个间隔再试"；次数耗尽合成超时失败结果，不抛错
func (c *Client) WaitToCompletion(ctx context.Context, taskID string, pollInterval time.Duration, maxAttempts int) (*dm.DeepResearchTask, error) {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	var last *dm.DeepResearchTask

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		snap, err := c.Poll(ctx, taskID)
		if err != nil {
			metrics.ProviderErrors.WithLabelValues("research").Inc()
			logger.Log.Warnf("research poll attempt %d failed [%s]: %v", attempt, taskID, err)
		} else {
			last = snap
			if snap.Status.Terminal() {
				return snap, nil
			}
		}

		timer.Reset(pollInterval)
	}

	// 次数耗尽：合成终态，绝不让调用方因超时崩溃
	timedOut := &dm.DeepResearchTask{
		TaskID: taskID,
		Status: dm.TaskFailed,
		Error:  fmt.Sprintf("timed out after %d poll attempts", maxAttempts),
	}
	if last != nil {
		timedOut.Progress = last.Progress
		timedOut.Output = last.Output
		timedOut.Sources = last.Sources
		timedOut.Deliverables = last.Deliverables
	}
	return timedOut, nil
}

// snapshotFromWire 把线上形态转成域对象快照
func snapshotFromWire(taskID string, w statusResponse) *dm.DeepResearchTask {
	task := &dm.DeepResearchTask{
		TaskID: taskID,
		Status: dm.TaskStatus(w.Status),
		Output: w.Output,
		PDFURL: w.PDFURL,
		Error:  w.Error,
	}

	switch task.Status {
	case dm.TaskQueued, dm.TaskRunning, dm.TaskCompleted, dm.TaskFailed:
	default:
		// 未知状态按运行中处理，等远端收敛
		task.Status = dm.TaskRunning
	}

	if w.Progress != nil {
		task.Progress = &dm.TaskProgress{
			CurrentStep: w.Progress.CurrentStep,
			TotalSteps:  w.Progress.TotalSteps,
		}
	}
	for _, s := range w.Sources {
		task.Sources = append(task.Sources, dm.Source{Title: s.Title, URL: s.URL})
	}
	for _, d := range w.Deliverables {
		task.Deliverables = append(task.Deliverables, dm.Deliverable{
			Type:   d.Type,
			Title:  d.Title,
			URL:    d.URL,
			Status: d.Status,
		})
	}

	return task
}
