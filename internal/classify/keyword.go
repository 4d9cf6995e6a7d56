package classify

import (
	"context"
	"strings"

	"github.com/iWorld-y/threat_radar/internal/geo"
	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// indicator 一条指示词：短语及其权重
type indicator struct {
	phrase string
	weight int
}

// categoryIndicators 类别指示词表
// 多词短语更具判别力，给更高权重
var categoryIndicators = map[dm.Category][]indicator{
	dm.CategoryConflict: {
		{"airstrike", 1}, {"shelling", 1}, {"offensive", 1}, {"frontline", 1},
		{"ceasefire", 1}, {"artillery", 1}, {"armed clash", 2}, {"armed conflict", 2},
		{"ground offensive", 2}, {"cross-border fire", 2},
	},
	dm.CategoryProtest: {
		{"protest", 1}, {"demonstration", 1}, {"rally", 1}, {"unrest", 1},
		{"strike action", 2}, {"civil disobedience", 2}, {"mass protest", 2},
	},
	dm.CategoryDisaster: {
		{"earthquake", 1}, {"flood", 1}, {"hurricane", 1}, {"typhoon", 1},
		{"wildfire", 1}, {"landslide", 1}, {"tsunami", 1}, {"volcanic eruption", 2},
		{"magnitude", 1}, {"aftershock", 1},
	},
	dm.CategoryDiplomatic: {
		{"summit", 1}, {"treaty", 1}, {"ambassador", 1}, {"negotiation", 1},
		{"sanctions talks", 2}, {"bilateral talks", 2}, {"peace talks", 2},
		{"diplomatic", 1},
	},
	dm.CategoryEconomic: {
		{"inflation", 1}, {"recession", 1}, {"default", 1}, {"currency", 1},
		{"central bank", 2}, {"trade deficit", 2}, {"economic crisis", 2},
		{"stock market", 2},
	},
	dm.CategoryTerrorism: {
		{"terrorist", 1}, {"terrorism", 1}, {"suicide bombing", 2},
		{"car bomb", 2}, {"extremist attack", 2}, {"hostage", 1}, {"ied", 1},
	},
	dm.CategoryCyber: {
		{"ransomware", 1}, {"malware", 1}, {"data breach", 2}, {"cyberattack", 1},
		{"ddos", 1}, {"phishing", 1}, {"zero-day", 2}, {"hackers", 1},
	},
	dm.CategoryHealth: {
		{"outbreak", 1}, {"epidemic", 1}, {"pandemic", 1}, {"cholera", 1},
		{"ebola", 1}, {"quarantine", 1}, {"public health emergency", 2},
		{"vaccination campaign", 2},
	},
	dm.CategoryEnvironmental: {
		{"drought", 1}, {"deforestation", 1}, {"pollution", 1},
		{"oil spill", 2}, {"climate change", 2}, {"toxic waste", 2},
		{"water shortage", 2},
	},
	dm.CategoryMilitary: {
		{"military exercise", 2}, {"troop deployment", 2}, {"missile test", 2},
		{"mobilization", 1}, {"warship", 1}, {"fighter jet", 2},
		{"military buildup", 2}, {"naval drill", 2},
	},
	dm.CategoryCrime: {
		{"cartel", 1}, {"trafficking", 1}, {"smuggling", 1}, {"homicide", 1},
		{"kidnapping", 1}, {"organized crime", 2}, {"drug seizure", 2},
	},
	dm.CategoryPiracy: {
		{"piracy", 1}, {"pirates", 1}, {"hijacked vessel", 2},
		{"ship seized", 2}, {"maritime attack", 2}, {"boarding attempt", 2},
	},
	dm.CategoryInfrastructure: {
		{"power grid", 2}, {"blackout", 1}, {"pipeline", 1},
		{"bridge collapse", 2}, {"railway disruption", 2}, {"substation", 1},
		{"water supply", 2},
	},
	dm.CategoryCommodities: {
		{"oil prices", 2}, {"grain exports", 2}, {"opec", 1},
		{"crude oil", 2}, {"wheat prices", 2}, {"gas supply", 2},
		{"commodity", 1},
	},
}

// threatIndicators 威胁等级指示词表
var threatIndicators = map[dm.ThreatLevel][]indicator{
	dm.ThreatCritical: {
		{"mass casualties", 2}, {"state of emergency", 2}, {"nuclear", 1},
		{"catastrophic", 1}, {"hundreds killed", 2}, {"invasion", 1},
	},
	dm.ThreatHigh: {
		{"killed", 1}, {"deaths", 1}, {"explosion", 1}, {"fatalities", 1},
		{"evacuation ordered", 2}, {"major attack", 2},
	},
	dm.ThreatMedium: {
		{"injured", 1}, {"wounded", 1}, {"clashes", 1}, {"damage", 1},
		{"disruption", 1}, {"escalation", 1},
	},
	dm.ThreatLow: {
		{"warning", 1}, {"tension", 1}, {"dispute", 1}, {"concern", 1},
		{"alert issued", 2},
	},
	dm.ThreatInfo: {
		{"announcement", 1}, {"statement", 1}, {"report released", 2},
		{"scheduled", 1}, {"anniversary", 1},
	},
}

// categoryTieBreak 同分时的类别裁决顺序，大致按事态严重程度
var categoryTieBreak = []dm.Category{
	dm.CategoryTerrorism, dm.CategoryConflict, dm.CategoryMilitary,
	dm.CategoryDisaster, dm.CategoryCyber, dm.CategoryCrime, dm.CategoryPiracy,
	dm.CategoryProtest, dm.CategoryHealth, dm.CategoryEnvironmental,
	dm.CategoryInfrastructure, dm.CategoryEconomic, dm.CategoryCommodities,
	dm.CategoryDiplomatic,
}

// 无任何指示词命中时的缺省策略（显式决策，见 DESIGN.md）
const (
	defaultCategory = dm.CategoryDiplomatic
	defaultThreat   = dm.ThreatLow
)

// KeywordClassifier 确定性关键词打分分类器（AI 不可用时的回退路径）
type KeywordClassifier struct {
	resolver *geo.Resolver
}

// NewKeywordClassifier 创建关键词分类器
func NewKeywordClassifier(resolver *geo.Resolver) *KeywordClassifier {
	return &KeywordClassifier{resolver: resolver}
}

// Ensure KeywordClassifier implements Classifier
var _ Classifier = (*KeywordClassifier)(nil)

// Classify 打分规则：score = Σ 出现次数 × 短语权重，标题出现按两次计
func (c *KeywordClassifier) Classify(ctx context.Context, title, content string) (*Classification, error) {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	category := defaultCategory
	bestCategoryScore := 0
	for _, cand := range categoryTieBreak {
		score := scoreIndicators(categoryIndicators[cand], titleLower, contentLower)
		// 严格大于才换，裁决顺序里靠前者同分获胜
		if score > bestCategoryScore {
			bestCategoryScore = score
			category = cand
		}
	}

	level := defaultThreat
	bestLevelScore := 0
	for _, cand := range dm.ThreatLevels {
		score := scoreIndicators(threatIndicators[cand], titleLower, contentLower)
		if score > bestLevelScore {
			bestLevelScore = score
			level = cand
		}
	}

	result := &Classification{Category: category, ThreatLevel: level}

	if c.resolver != nil {
		combined := title + ". " + content
		if locs := c.resolver.ResolveFromText(ctx, combined, "", 1); len(locs) > 0 {
			result.Location = &locs[0]
		}
	}

	return result, nil
}

func scoreIndicators(indicators []indicator, titleLower, contentLower string) int {
	score := 0
	for _, ind := range indicators {
		score += strings.Count(titleLower, ind.phrase) * ind.weight * 2
		score += strings.Count(contentLower, ind.phrase) * ind.weight
	}
	return score
}
