package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iWorld-y/threat_radar/internal/assemble"
	"github.com/iWorld-y/threat_radar/internal/logger"
	dm "github.com/iWorld-y/threat_radar/internal/model"
	"github.com/iWorld-y/threat_radar/internal/research"
	"github.com/iWorld-y/threat_radar/internal/search"
	"github.com/iWorld-y/threat_radar/internal/store"
	"github.com/iWorld-y/threat_radar/internal/stream"
)

// Researcher 深度研究任务能力
type Researcher interface {
	Create(ctx context.Context, topic string) (string, error)
	Poll(ctx context.Context, taskID string) (*dm.DeepResearchTask, error)
	WaitToCompletion(ctx context.Context, taskID string, pollInterval time.Duration, maxAttempts int) (*dm.DeepResearchTask, error)
}

// Service 对展示层暴露的服务实现
type Service struct {
	assembler  *assemble.Assembler
	events     *store.EventsStore
	relay      *stream.Relay
	researcher Researcher

	defaultQueries []string
	pollInterval   time.Duration
	maxAttempts    int
}

// NewService 创建服务实例；relay 与 researcher 允许为 nil（对应能力未配置）
func NewService(
	assembler *assemble.Assembler,
	events *store.EventsStore,
	relay *stream.Relay,
	researcher Researcher,
	defaultQueries []string,
	pollInterval time.Duration,
	maxAttempts int,
) *Service {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Service{
		assembler:      assembler,
		events:         events,
		relay:          relay,
		researcher:     researcher,
		defaultQueries: defaultQueries,
		pollInterval:   pollInterval,
		maxAttempts:    maxAttempts,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type eventsRequest struct {
	Queries     []string `json:"queries"`
	AccessToken string   `json:"accessToken"`
}

type eventsResponse struct {
	Events    []dm.ThreatEvent `json:"events"`
	Count     int              `json:"count"`
	Timestamp time.Time        `json:"timestamp"`
}

// handleEvents POST /events：抓取-编排事件批次
// 省略 queries 时优先回放缓存批次，缓存为空则用配置的默认查询
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	// 空 body 合法，等价于回放缓存
	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if len(req.Queries) == 0 {
		if cached := s.events.Events(); len(cached) > 0 {
			writeJSON(w, http.StatusOK, eventsResponse{Events: cached, Count: len(cached), Timestamp: time.Now().UTC()})
			return
		}
		req.Queries = s.defaultQueries
	}

	events, err := s.assembler.FetchAndAssemble(r.Context(), req.Queries, req.AccessToken)
	if err != nil {
		if errors.Is(err, search.ErrAuthRequired) {
			writeJSON(w, http.StatusUnauthorized, map[string]bool{"requiresReauth": true})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.events.AddEvents(events)
	if events == nil {
		events = []dm.ThreatEvent{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events), Timestamp: time.Now().UTC()})
}

// phaseResult 非流式模式下一个阶段的聚合结果
type phaseResult struct {
	Conflicts string      `json:"conflicts"`
	Sources   []dm.Source `json:"sources"`
}

type conflictsResponse struct {
	Current phaseResult `json:"current"`
	Past    phaseResult `json:"past"`
}

// handleConflicts GET /countries/conflicts：两阶段冲突分析
// stream=true 走 SSE，否则把同一条流聚合成 JSON
func (s *Service) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "conflict analysis not configured"})
		return
	}

	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "country is required"})
		return
	}

	chunks := s.relay.Stream(r.Context(), country)

	if r.URL.Query().Get("stream") == "true" {
		s.streamConflicts(w, r, chunks)
		return
	}

	// 聚合模式：把流排干再回 JSON
	var resp conflictsResponse
	var streamErr string
	for chunk := range chunks {
		switch chunk.Type {
		case dm.ChunkCurrentContent:
			resp.Current.Conflicts += chunk.Content
		case dm.ChunkCurrentSources:
			resp.Current.Sources = append(resp.Current.Sources, chunk.Sources...)
		case dm.ChunkPastContent:
			resp.Past.Conflicts += chunk.Content
		case dm.ChunkPastSources:
			resp.Past.Sources = append(resp.Past.Sources, chunk.Sources...)
		case dm.ChunkError:
			streamErr = chunk.Error
		}
	}

	if streamErr != "" {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: streamErr})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// streamConflicts 以 SSE 转发流块，每块即时 flush
func (s *Service) streamConflicts(w http.ResponseWriter, r *http.Request, chunks <-chan dm.ConflictStreamChunk) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for chunk := range chunks {
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if err := enc.Encode(chunk); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}

type researchRequest struct {
	Topic       string `json:"topic"`
	AccessToken string `json:"accessToken"`
}

type researchCreateResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// handleCreateResearch POST /deepresearch：创建报告任务
func (s *Service) handleCreateResearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.researcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "deep research not configured"})
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
		return
	}

	taskID, err := s.researcher.Create(r.Context(), req.Topic)
	if err != nil {
		if errors.Is(err, research.ErrEmptyTopic) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	// 后台守护等待终态，仅做日志观测；不影响本次响应
	go func() {
		final, err := s.researcher.WaitToCompletion(context.Background(), taskID, s.pollInterval, s.maxAttempts)
		if err != nil {
			logger.Log.Warnf("research watch aborted [%s]: %v", taskID, err)
			return
		}
		logger.Log.Infof("research task %s finished with status %s", taskID, final.Status)
	}()

	writeJSON(w, http.StatusOK, researchCreateResponse{TaskID: taskID, Status: string(dm.TaskQueued)})
}

// handleResearchStatus GET /deepresearch/{taskId}：单次状态快照
func (s *Service) handleResearchStatus(w http.ResponseWriter, r *http.Request) {
	if s.researcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "deep research not configured"})
		return
	}

	taskID := mux.Vars(r)["taskId"]
	if taskID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "taskId is required"})
		return
	}

	snap, err := s.researcher.Poll(r.Context(), taskID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Warnf("write response failed: %v", err)
	}
}
