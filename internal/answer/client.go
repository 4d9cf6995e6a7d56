package answer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/threat_radar/internal/logger"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// Client 问答分析服务客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	// streaming 标记上游是否支持逐块流式返回
	streaming bool
}

// NewClient 创建问答客户端
func NewClient(apiKey, baseURL string, streaming bool) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		streaming: streaming,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

// SupportsStreaming 上游是否支持真流式
func (c *Client) SupportsStreaming() bool { return c.streaming }

// Options 问答请求选项
type Options struct {
	ExcludedSources []string
}

// Answer 一次完整的问答结果
type Answer struct {
	Contents      string      `json:"contents"`
	SearchResults []dm.Source `json:"search_results"`
}

// Event 流式问答的一个片段
type Event struct {
	Type          string      `json:"type"` // "content" or "search_results"
	Content       string      `json:"content,omitempty"`
	SearchResults []dm.Source `json:"search_results,omitempty"`
}

type wireRequest struct {
	Query           string   `json:"query"`
	ExcludedSources []string `json:"excluded_sources,omitempty"`
	Stream          bool     `json:"stream,omitempty"`
}

// Query 非流式问答，一次拿到整段答案
func (c *Client) Query(ctx context.Context, query string, opts Options) (*Answer, error) {
	body, err := json.Marshal(wireRequest{Query: query, ExcludedSources: opts.ExcludedSources})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/answer", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("answer api error (status %d): %s", res.StatusCode, string(raw))
	}

	var out Answer
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	return &out, nil
}

// QueryStream 流式问答，事件顺序与上游到达顺序一致
// 返回的通道在流结束或出错时关闭；错误通过第二个通道给出（至多一个）
func (c *Client) QueryStream(ctx context.Context, query string, opts Options) (<-chan Event, <-chan error) {
	events := make(chan Event, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errc)

		body, err := json.Marshal(wireRequest{Query: query, ExcludedSources: opts.ExcludedSources, Stream: true})
		if err != nil {
			errc <- fmt.Errorf("marshal request failed: %w", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/answer", bytes.NewReader(body))
		if err != nil {
			errc <- fmt.Errorf("create request failed: %w", err)
			return
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		// 流式请求不能带整体超时，交给 ctx 控制
		streamClient := &http.Client{}
		res, err := streamClient.Do(req)
		if err != nil {
			errc <- fmt.Errorf("request failed: %w", err)
			return
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(res.Body)
			errc <- fmt.Errorf("answer api error (status %d): %s", res.StatusCode, string(raw))
			return
		}

		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				return
			}

			var ev Event
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				logger.Log.Warnf("skip malformed stream frame: %v", err)
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errc <- fmt.Errorf("stream read failed: %w", err)
		}
	}()

	return events, errc
}
