package assemble

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/threat_radar/internal/classify"
	"github.com/iWorld-y/threat_radar/internal/logger"
	"github.com/iWorld-y/threat_radar/internal/metrics"
	dm "github.com/iWorld-y/threat_radar/internal/model"
	"github.com/iWorld-y/threat_radar/internal/search"
)

const (
	summaryLimit = 500
	keywordLimit = 8
	entityLimit  = 6
	// minContentChars 低于该长度时尝试抓取正文补全
	minContentChars = 500
	maxContentChars = 5000
)

// blockedDomains 屏蔽的来源域名（聚合页、占位站点）
var blockedDomains = map[string]struct{}{
	"example.com":        {},
	"facebook.com":       {},
	"twitter.com":        {},
	"x.com":              {},
	"youtube.com":        {},
	"pinterest.com":      {},
	"tiktok.com":         {},
	"wikipedia.org":      {},
	"tripadvisor.com":    {},
	"travel.state.gov":   {},
	"smartraveller.gov.au": {},
}

// locationStoplist 无效占位地名
var locationStoplist = map[string]struct{}{
	"unknown": {}, "global": {}, "worldwide": {}, "n/a": {}, "routes": {},
}

// Assembler 把原始搜索结果编排为有序 ThreatEvent 批次
type Assembler struct {
	searcher   search.Searcher
	classifier classify.Classifier
	limiter    *rate.Limiter
	maxResults int
	// fetchContent 是否允许对过短摘要抓取原文（测试中关闭）
	fetchContent bool
}

// NewAssembler 创建编排器
func NewAssembler(searcher search.Searcher, classifier classify.Classifier, limiter *rate.Limiter, maxResults int) *Assembler {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Assembler{
		searcher:     searcher,
		classifier:   classifier,
		limiter:      limiter,
		maxResults:   maxResults,
		fetchContent: true,
	}
}

// SetFetchContent 控制正文抓取开关
func (a *Assembler) SetFetchContent(enabled bool) { a.fetchContent = enabled }

// FetchAndAssemble 对每个查询并发搜索，合并后统一编排
// 单个查询失败只损失该查询的结果；认证失效必须整体上抛
func (a *Assembler) FetchAndAssemble(ctx context.Context, queries []string, authToken string) ([]dm.ThreatEvent, error) {
	now := time.Now()
	endDate := now.Format(time.DateOnly)
	startDate := now.AddDate(0, 0, -3).Format(time.DateOnly)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		merged  []search.Result
		authErr error
	)

	for _, query := range queries {
		wg.Add(1)
		go func(query string) {
			defer wg.Done()

			// 限流器约束对搜索提供方的总出站速率
			if a.limiter != nil {
				if err := a.limiter.Wait(ctx); err != nil {
					return
				}
			}

			req := &search.Request{
				Query:      query,
				Topic:      "news",
				MaxResults: a.maxResults,
				StartDate:  startDate,
				EndDate:    endDate,
				AuthToken:  authToken,
			}

			resp, err := a.searcher.Search(ctx, req)
			if err != nil {
				metrics.ProviderErrors.WithLabelValues("search").Inc()
				if err == search.ErrAuthRequired {
					mu.Lock()
					authErr = err
					mu.Unlock()
					return
				}
				logger.Log.Errorf("search query failed [%s]: %v", query, err)
				return
			}

			mu.Lock()
			merged = append(merged, resp.Results...)
			mu.Unlock()
		}(query)
	}

	wg.Wait()

	if authErr != nil {
		return nil, authErr
	}

	return a.Assemble(ctx, merged), nil
}

// Assemble 过滤 -> URL 去重 -> 清洗 -> 并发分类 -> 构建 -> 标题去重 -> 排序
func (a *Assembler) Assemble(ctx context.Context, results []search.Result) []dm.ThreatEvent {
	// 1. 域名黑名单与通用标题过滤
	var filtered []search.Result
	for _, r := range results {
		if blockedDomain(r.URL) {
			metrics.EventsDiscarded.WithLabelValues("blocked_domain").Inc()
			continue
		}
		if GenericTitle(r.Title) {
			metrics.EventsDiscarded.WithLabelValues("generic_title").Inc()
			continue
		}
		filtered = append(filtered, r)
	}

	// 2. 规范化 URL 去重，首次出现者保留
	seenURL := make(map[string]struct{})
	deduped := filtered[:0]
	for _, r := range filtered {
		key := normalizeURL(r.URL)
		if _, dup := seenURL[key]; dup {
			metrics.EventsDiscarded.WithLabelValues("duplicate_url").Inc()
			continue
		}
		seenURL[key] = struct{}{}
		deduped = append(deduped, r)
	}

	// 3-5. 逐条清洗、分类、构建；带空槽并发扇出后过滤
	// 单条失败只留下 nil 槽位，绝不拖垮整批
	slots := make([]*dm.ThreatEvent, len(deduped))
	var wg sync.WaitGroup
	for i, r := range deduped {
		wg.Add(1)
		go func(i int, r search.Result) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					logger.Log.Errorf("assemble item panic [%s]: %v", r.URL, rec)
					metrics.EventsDiscarded.WithLabelValues("item_error").Inc()
				}
			}()
			slots[i] = a.buildEvent(ctx, r)
		}(i, r)
	}
	wg.Wait()

	var events []dm.ThreatEvent
	for _, ev := range slots {
		if ev != nil {
			events = append(events, *ev)
		}
	}

	// 6. 批内精确标题去重
	seenTitle := make(map[string]struct{})
	unique := events[:0]
	for _, ev := range events {
		if _, dup := seenTitle[ev.Title]; dup {
			metrics.EventsDiscarded.WithLabelValues("duplicate_title").Inc()
			continue
		}
		seenTitle[ev.Title] = struct{}{}
		unique = append(unique, ev)
	}
	events = unique

	// 7. 威胁优先级升序，同级时间戳降序
	sort.SliceStable(events, func(i, j int) bool {
		pi, pj := events[i].ThreatLevel.Priority(), events[j].ThreatLevel.Priority()
		if pi != pj {
			return pi < pj
		}
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	metrics.EventsIngested.Add(float64(len(events)))
	return events
}

// buildEvent 单条结果的清洗、分类与构建；失败返回 nil
func (a *Assembler) buildEvent(ctx context.Context, r search.Result) *dm.ThreatEvent {
	title := CleanText(r.Title)
	content := CleanText(r.Content)

	// 摘要过短时抓取正文补全
	if a.fetchContent && len(content) < minContentChars {
		if fetched, err := fetchAndCleanContent(r.URL); err == nil && len(fetched) > len(content) {
			content = CleanText(fetched)
		}
	}
	content = TruncateRunes(content, maxContentChars)

	result, err := a.classifier.Classify(ctx, title, content)
	if err != nil {
		logger.Log.Warnf("classify failed [%s]: %v", r.URL, err)
		metrics.EventsDiscarded.WithLabelValues("classify_error").Inc()
		return nil
	}

	if !validLocation(result.Location) {
		metrics.EventsDiscarded.WithLabelValues("no_location").Inc()
		return nil
	}

	source := r.Source
	if source == "" {
		source = hostOf(r.URL)
	}

	return &dm.ThreatEvent{
		ID:          uuid.NewString(),
		Title:       title,
		Summary:     TruncateRunes(content, summaryLimit),
		Category:    result.Category,
		ThreatLevel: result.ThreatLevel,
		Location:    *result.Location,
		Timestamp:   parseTimestamp(r.PublishedDate),
		Source:      source,
		SourceURL:   r.URL,
		Entities:    ExtractEntities(title+". "+content, entityLimit),
		Keywords:    ExtractKeywords(title+" "+content, keywordLimit, 4),
		RawContent:  content,
	}
}

// validLocation 位置有效性门槛：非占位、非短小写垃圾词
func validLocation(loc *dm.GeoLocation) bool {
	if loc == nil {
		return false
	}
	name := strings.TrimSpace(loc.PlaceName)
	if len(name) < 2 {
		return false
	}
	if _, stop := locationStoplist[strings.ToLower(name)]; stop {
		return false
	}
	// 短且全小写的多半是抽取残渣
	if len(name) <= 4 && name == strings.ToLower(name) {
		return false
	}
	return true
}

// normalizeURL 去掉查询串、锚点和末尾斜杠，整体小写
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSuffix(raw, "/"))
	}
	u.RawQuery = ""
	u.Fragment = ""
	normalized := strings.TrimSuffix(u.String(), "/")
	return strings.ToLower(normalized)
}

func blockedDomain(raw string) bool {
	host := hostOf(raw)
	if host == "" {
		return false
	}
	for domain := range blockedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// parseTimestamp 宽松解析发布时间，失败用当前时间
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC1123,
		time.RFC1123Z,
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
