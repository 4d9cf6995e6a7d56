package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/threat_radar/internal/geo"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// maxContentChars 提交给模型的正文截断长度
const maxContentChars = 1000

// AIClassifier 基于 LLM 的结构化输出分类器
type AIClassifier struct {
	chatModel model.ChatModel
	resolver  *geo.Resolver
	limiter   *rate.Limiter
}

// NewAIClassifier 创建 AI 分类器
func NewAIClassifier(chatModel model.ChatModel, resolver *geo.Resolver, limiter *rate.Limiter) *AIClassifier {
	return &AIClassifier{chatModel: chatModel, resolver: resolver, limiter: limiter}
}

// Ensure AIClassifier implements Classifier
var _ Classifier = (*AIClassifier)(nil)

// llmResponse 用于解析 LLM 返回的 JSON
type llmResponse struct {
	Category        string `json:"category"`
	ThreatLevel     string `json:"threat_level"`
	PrimaryLocation string `json:"primary_location"`
	Country         string `json:"country"`
}

const classifyPrompt = `You are a global security analyst. Classify the news item below.
Return strictly the following JSON and nothing else, no markdown fences:
{
	"category": "one of: conflict, protest, disaster, diplomatic, economic, terrorism, cyber, health, environmental, military, crime, piracy, infrastructure, commodities",
	"threat_level": "one of: critical, high, medium, low, info",
	"primary_location": "the single most relevant city/region/country named in the text",
	"country": "the country that location belongs to, empty if unclear"
}`

// Classify 提交标题与截断正文，解析受枚举约束的 JSON 结果
func (c *AIClassifier) Classify(ctx context.Context, title, content string) (*Classification, error) {
	if runes := []rune(content); len(runes) > maxContentChars {
		content = string(runes[:maxContentChars])
	}

	input := fmt.Sprintf("Title: %s\n\nContent: %s", title, content)

	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: "You are a JSON generator. Output a single JSON object only."},
			{Role: schema.User, Content: input + "\n\n" + classifyPrompt},
		}

		resp, err := c.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return nil, err
		}

		cleanContent := strings.TrimSpace(resp.Content)
		cleanContent = strings.TrimPrefix(cleanContent, "```json")
		cleanContent = strings.TrimPrefix(cleanContent, "```")
		cleanContent = strings.TrimSuffix(cleanContent, "```")

		var parsed llmResponse
		if err := json.Unmarshal([]byte(cleanContent), &parsed); err != nil {
			lastErr = err
			if i < maxRetries {
				continue
			}
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}

		return c.buildClassification(ctx, parsed)
	}
	return nil, lastErr
}

// buildClassification 校验枚举并解析主地名
func (c *AIClassifier) buildClassification(ctx context.Context, parsed llmResponse) (*Classification, error) {
	category, err := dm.ParseCategory(parsed.Category)
	if err != nil {
		return nil, err
	}
	level, err := dm.ParseThreatLevel(parsed.ThreatLevel)
	if err != nil {
		return nil, err
	}

	result := &Classification{Category: category, ThreatLevel: level}

	if parsed.PrimaryLocation != "" {
		loc, _ := c.resolver.Geocode(ctx, parsed.PrimaryLocation)
		if loc == nil && parsed.Country != "" {
			// 主地名编码失败时用国家名兜底
			loc, _ = c.resolver.Geocode(ctx, parsed.Country)
		}
		result.Location = loc
	}

	return result, nil
}
