package stream

import (
	"context"
	"fmt"

	"github.com/iWorld-y/threat_radar/internal/answer"
	"github.com/iWorld-y/threat_radar/internal/logger"
	"github.com/iWorld-y/threat_radar/internal/metrics"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// chunkBuffer 下游消费前可积压的块数
const chunkBuffer = 16

// excludedSources 冲突分析时排除的低质量来源
var excludedSources = []string{"reddit.com", "quora.com", "pinterest.com"}

// AnswerProvider 问答服务能力
type AnswerProvider interface {
	SupportsStreaming() bool
	Query(ctx context.Context, query string, opts answer.Options) (*answer.Answer, error)
	QueryStream(ctx context.Context, query string, opts answer.Options) (<-chan answer.Event, <-chan error)
}

// Relay 两阶段冲突分析流中继
// 阶段一（当前局势）的所有块先于阶段二（历史沿革）输出；
// 每条流恰好一个 done 或 error 终止块，随后通道关闭
type Relay struct {
	provider AnswerProvider
}

// NewRelay 创建流中继
func NewRelay(provider AnswerProvider) *Relay {
	return &Relay{provider: provider}
}

// phase 一个分析阶段：查询语句 + 两种块类型
type phase struct {
	query       string
	contentType dm.ChunkType
	sourcesType dm.ChunkType
}

// Stream 针对一个国家发起两阶段分析流
// 消费方取消 ctx 即终止生产端，不遗留挂起的发送
func (r *Relay) Stream(ctx context.Context, country string) <-chan dm.ConflictStreamChunk {
	out := make(chan dm.ConflictStreamChunk, chunkBuffer)

	phases := []phase{
		{
			query:       fmt.Sprintf("What are the current armed conflicts and security situation in %s? Cover active hostilities, parties involved, and recent developments.", country),
			contentType: dm.ChunkCurrentContent,
			sourcesType: dm.ChunkCurrentSources,
		},
		{
			query:       fmt.Sprintf("What is the history of armed conflicts in %s? Cover major past wars, insurgencies and their outcomes.", country),
			contentType: dm.ChunkPastContent,
			sourcesType: dm.ChunkPastSources,
		},
	}

	go func() {
		defer close(out)

		for _, p := range phases {
			if err := r.runPhase(ctx, p, out); err != nil {
				if ctx.Err() != nil {
					// 消费端取消不算流错误，直接收尾
					return
				}
				metrics.ProviderErrors.WithLabelValues("answer").Inc()
				logger.Log.Errorf("conflict stream phase failed [%s]: %v", country, err)
				send(ctx, out, dm.ConflictStreamChunk{Type: dm.ChunkError, Error: err.Error()})
				return
			}
		}

		send(ctx, out, dm.ConflictStreamChunk{Type: dm.ChunkDone})
	}()

	return out
}

// runPhase 执行一个阶段：内容块按到达顺序转发，末尾至多一个来源块
func (r *Relay) runPhase(ctx context.Context, p phase, out chan<- dm.ConflictStreamChunk) error {
	opts := answer.Options{ExcludedSources: excludedSources}

	if !r.provider.SupportsStreaming() {
		// 代理模式：整段答案作为单个内容块
		resp, err := r.provider.Query(ctx, p.query, opts)
		if err != nil {
			return err
		}
		if !send(ctx, out, dm.ConflictStreamChunk{Type: p.contentType, Content: resp.Contents}) {
			return ctx.Err()
		}
		if len(resp.SearchResults) > 0 {
			if !send(ctx, out, dm.ConflictStreamChunk{Type: p.sourcesType, Sources: resp.SearchResults}) {
				return ctx.Err()
			}
		}
		return nil
	}

	events, errc := r.provider.QueryStream(ctx, p.query, opts)

	var sources []dm.Source
	for ev := range events {
		switch ev.Type {
		case "content":
			if !send(ctx, out, dm.ConflictStreamChunk{Type: p.contentType, Content: ev.Content}) {
				return ctx.Err()
			}
		case "search_results":
			// 来源统一攒到阶段末尾，保证相分隔不变量
			sources = append(sources, ev.SearchResults...)
		}
	}
	if err := <-errc; err != nil {
		return err
	}

	if len(sources) > 0 {
		if !send(ctx, out, dm.ConflictStreamChunk{Type: p.sourcesType, Sources: sources}) {
			return ctx.Err()
		}
	}
	return nil
}

// send 带取消保护的推送；返回 false 表示消费端已放弃
func send(ctx context.Context, out chan<- dm.ConflictStreamChunk, chunk dm.ConflictStreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
