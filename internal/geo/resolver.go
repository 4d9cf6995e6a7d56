package geo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/threat_radar/internal/geo/mapbox"
	"github.com/iWorld-y/threat_radar/internal/logger"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// unknownSentinel AI 提取器表示"无法判断"的哨兵值
const unknownSentinel = "UNKNOWN"

// Geocoder 远端地理编码回退接口
type Geocoder interface {
	Geocode(ctx context.Context, place string) ([]mapbox.Feature, error)
	ReverseCountry(ctx context.Context, lng, lat float64) ([]mapbox.Feature, error)
}

// Resolver 地名解析器：速查表优先，远端编码回退，可选 AI 辅助提取
type Resolver struct {
	geocoder Geocoder        // 为 nil 时只走速查表
	picker   model.ChatModel // 为 nil 时跳过 AI 提取
	limiter  *rate.Limiter
}

// NewResolver 创建解析器；geocoder、picker、limiter 均可为 nil
func NewResolver(geocoder Geocoder, picker model.ChatModel, limiter *rate.Limiter) *Resolver {
	return &Resolver{geocoder: geocoder, picker: picker, limiter: limiter}
}

// Geocode 将地名解析为坐标
// 未命中或网络失败一律返回 (nil, nil)，不向上抛错
func (r *Resolver) Geocode(ctx context.Context, name string) (*dm.GeoLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	// 速查表快路径：零网络
	if loc, ok := lookupGazetteer(name); ok {
		return &loc, nil
	}

	if r.geocoder == nil {
		return nil, nil
	}

	features, err := r.geocoder.Geocode(ctx, name)
	if err != nil {
		logger.Log.Warnf("geocode fallback failed [%s]: %v", name, err)
		return nil, nil
	}
	if len(features) == 0 {
		return nil, nil
	}

	loc := locationFromFeature(features[0])

	// 正向结果缺少国家上下文时，用反向编码补齐；失败只损失国家字段
	if loc.Country == "" {
		if countries, err := r.geocoder.ReverseCountry(ctx, loc.Longitude, loc.Latitude); err != nil {
			logger.Log.Warnf("reverse country lookup failed [%s]: %v", name, err)
		} else if len(countries) > 0 {
			loc.Country = countries[0].Text
		}
	}

	return loc, nil
}

// locationFromFeature 从地理编码结果构建位置对象
func locationFromFeature(f mapbox.Feature) *dm.GeoLocation {
	loc := &dm.GeoLocation{
		Longitude: f.Center[0],
		Latitude:  f.Center[1],
		PlaceName: f.Text,
	}

	for _, entry := range f.Context {
		switch {
		case strings.HasPrefix(entry.ID, "country."):
			loc.Country = entry.Text
		case strings.HasPrefix(entry.ID, "region."):
			loc.Region = entry.Text
		}
	}

	// 结果本身就是国家时，从自身名称取国家
	for _, pt := range f.PlaceType {
		if pt == "country" {
			loc.Country = f.Text
			break
		}
	}

	return loc
}

// 候选地名提取模式，按抽取优先级排列
var (
	// "Mariupol, Donetsk" 一类的 City, Region 组合
	cityRegionRe = regexp.MustCompile(`\b([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+)?), ([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+)?)\b`)
	// in/at/near/from 后的介词短语
	prepositionRe = regexp.MustCompile(`\b(?:in|at|near|from) ([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+){0,2})`)
	// "X region/province/..." 名词后缀短语
	suffixRe = regexp.MustCompile(`\b([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+)?) (?:region|province|district|state|governorate|oblast|peninsula)\b`)
	// "X attack/bombing/protest" 动宾短语
	verbObjectRe = regexp.MustCompile(`\b([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+)?) (?:attacks?|bombings?|blasts?|protests?|riots?|strikes?|shootings?|earthquake|floods?|offensive|crisis)\b`)
	// "X government/military" 政府军队所有格短语
	possessiveRe = regexp.MustCompile(`\b([A-Z][a-zA-Z'-]+)(?:'s)? (?:government|military|forces|army|navy|police|parliament|officials)\b`)
)

// candidateBlacklist 非地名词：组织、时间、宗教、泛化描述词
var candidateBlacklist = map[string]struct{}{
	// 组织机构
	"united nations": {}, "nato": {}, "european union": {}, "world bank": {},
	"red cross": {}, "interpol": {}, "pentagon": {}, "white house": {},
	"state department": {}, "security council": {}, "african union": {},
	"islamic state": {}, "al qaeda": {}, "boko haram": {}, "hezbollah": {},
	"hamas": {}, "taliban": {}, "wagner group": {},
	// 时间词
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {},
	"saturday": {}, "sunday": {}, "january": {}, "february": {}, "march": {},
	"april": {}, "may": {}, "june": {}, "july": {}, "august": {},
	"september": {}, "october": {}, "november": {}, "december": {},
	"today": {}, "yesterday": {}, "last week": {}, "this year": {},
	// 宗教词
	"muslim": {}, "muslims": {}, "christian": {}, "christians": {},
	"islamic": {}, "islam": {}, "jewish": {}, "catholic": {}, "hindu": {},
	"sunni": {}, "shia": {}, "orthodox": {},
	// 泛化描述词
	"north": {}, "south": {}, "east": {}, "west": {}, "northern": {},
	"southern": {}, "eastern": {}, "western": {}, "central": {},
	"the": {}, "new": {}, "state": {}, "city": {}, "country": {},
	"government": {}, "president": {}, "minister": {}, "reuters": {},
	"associated press": {}, "breaking": {}, "update": {}, "unknown": {},
	"global": {}, "world": {}, "international": {},
}

// extractCandidates 按模式优先级提取候选地名，保序去重
func extractCandidates(text string) []string {
	var candidates []string
	seen := make(map[string]struct{})

	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		if !viableCandidate(name) {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, name)
	}

	for _, m := range cityRegionRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
		add(m[2])
	}
	for _, re := range []*regexp.Regexp{prepositionRe, suffixRe, verbObjectRe, possessiveRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}

	return candidates
}

// viableCandidate 过滤明显不是地名的候选词
func viableCandidate(name string) bool {
	if len([]rune(name)) < 3 {
		return false
	}
	if _, banned := candidateBlacklist[strings.ToLower(name)]; banned {
		return false
	}
	// 短全大写词大概率是缩写 (UN, NATO, ISIS)
	if len(name) <= 4 && name == strings.ToUpper(name) {
		hasLetter := false
		for _, r := range name {
			if unicode.IsLetter(r) {
				hasLetter = true
				break
			}
		}
		if hasLetter {
			return false
		}
	}
	return true
}

// ResolveFromText 从自由文本中解析最多 maxLocations 个地理位置
// 返回值按抽取优先级排列，PlaceName 大小写不敏感去重
func (r *Resolver) ResolveFromText(ctx context.Context, text, title string, maxLocations int) []dm.GeoLocation {
	if maxLocations <= 0 {
		maxLocations = 3
	}

	candidates := extractCandidates(text)

	// AI 辅助：给定标题时让模型从候选中挑唯一主地名，置于队首
	if r.picker != nil && title != "" && len(candidates) > 0 {
		if pick := r.pickPrimary(ctx, title, candidates); pick != "" {
			reordered := []string{pick}
			for _, c := range candidates {
				if !strings.EqualFold(c, pick) {
					reordered = append(reordered, c)
				}
			}
			candidates = reordered
		}
	}

	var out []dm.GeoLocation
	taken := make(map[string]struct{})
	for _, cand := range candidates {
		if len(out) >= maxLocations {
			break
		}
		loc, _ := r.Geocode(ctx, cand)
		if loc == nil {
			// 单个候选失败只跳过，不中断整轮解析
			continue
		}
		key := strings.ToLower(loc.PlaceName)
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, *loc)
	}

	return out
}

// pickPrimary 让模型从候选列表中挑出唯一主地名，失败返回空串
func (r *Resolver) pickPrimary(ctx context.Context, title string, candidates []string) string {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return ""
		}
	}

	prompt := fmt.Sprintf(`News title: %s
Candidate locations: %s

Pick the single place name from the candidate list that is the primary location of this news event.
Reply with exactly that place name and nothing else. If none of the candidates fits, reply %s.`,
		title, strings.Join(candidates, ", "), unknownSentinel)

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a geography assistant. Reply with a single place name only."},
		{Role: schema.User, Content: prompt},
	}

	resp, err := r.picker.Generate(ctx, messages)
	if err != nil {
		logger.Log.Warnf("AI location pick failed: %v", err)
		return ""
	}

	pick := strings.TrimSpace(resp.Content)
	if pick == "" || strings.EqualFold(pick, unknownSentinel) {
		return ""
	}

	// 只接受候选列表里的值，防止模型自由发挥
	for _, c := range candidates {
		if strings.EqualFold(c, pick) {
			return c
		}
	}
	return ""
}
