package classify

import (
	"context"

	"github.com/iWorld-y/threat_radar/internal/logger"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// Classification 分类结果
// Location 为 nil 表示未能解析出有效位置
type Classification struct {
	Category    dm.Category
	ThreatLevel dm.ThreatLevel
	Location    *dm.GeoLocation
}

// Classifier 分类能力接口，AI 与关键词两种实现可互换
type Classifier interface {
	Classify(ctx context.Context, title, content string) (*Classification, error)
}

// Engine 编排器：优先走 AI 路径，任何 AI 错误都吸收掉并退回关键词路径
type Engine struct {
	ai       Classifier // 可为 nil
	fallback Classifier
}

// NewEngine 创建分类编排器；ai 可为 nil，fallback 必填
func NewEngine(ai, fallback Classifier) *Engine {
	return &Engine{ai: ai, fallback: fallback}
}

// Ensure Engine implements Classifier
var _ Classifier = (*Engine)(nil)

// Classify 执行两级分类
func (e *Engine) Classify(ctx context.Context, title, content string) (*Classification, error) {
	if e.ai != nil {
		result, err := e.ai.Classify(ctx, title, content)
		if err == nil {
			return result, nil
		}
		// AI 路径不可用视为降级信号，绝不向调用方传播
		logger.Log.Warnf("AI classification unavailable, falling back: %v", err)
	}
	return e.fallback.Classify(ctx, title, content)
}
