package assemble

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	boilerplateRe = regexp.MustCompile(`(?i)(skip to (main )?content|accept (all )?cookies|subscribe to our newsletter|sign in|advertisement|read more:|share this article)`)
	// "Security Threats | Topics" 一类的栏目索引页标题
	genericTitleRe = regexp.MustCompile(`(?i)^(security (threats?|assessments?)( \d{4})?|global (security|threats?)( (overview|report))?|travel advisor(y|ies)|country (reports?|profiles?)|(latest|breaking) news|news|topics?|home)(\s*[|\-–].*)?$`)
)

// stopwords 关键词提取忽略的高频词
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "in": {}, "for": {}, "of": {},
	"and": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {}, "has": {},
	"have": {}, "was": {}, "were": {}, "are": {}, "been": {}, "that": {},
	"this": {}, "its": {}, "his": {}, "her": {}, "their": {}, "after": {},
	"said": {}, "says": {}, "will": {}, "would": {}, "could": {}, "more": {},
	"than": {}, "into": {}, "over": {}, "about": {}, "also": {}, "not": {},
	"as": {}, "is": {}, "it": {}, "be": {}, "or": {}, "which": {}, "but": {},
}

// CleanText 去掉导航噪声，折叠空白
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	cleaned := boilerplateRe.ReplaceAllString(input, " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// GenericTitle 判断标题是否为栏目索引/模板页一类的通用标题
func GenericTitle(title string) bool {
	return genericTitleRe.MatchString(strings.TrimSpace(title))
}

// ExtractKeywords 返回出现频率最高的非停用词
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := limit
	if max <= 0 || max > len(pairs) {
		max = len(pairs)
	}

	keywords := make([]string, 0, max)
	for i := 0; i < max; i++ {
		keywords = append(keywords, pairs[i].word)
	}

	return keywords
}

var entityRe = regexp.MustCompile(`\b[A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+){0,3}\b`)

// ExtractEntities 提取大写开头的命名实体短语，保序去重
func ExtractEntities(text string, limit int) []string {
	matches := entityRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var entities []string
	for _, m := range matches {
		// 单个大写词多为句首，不当实体
		if !strings.Contains(m, " ") {
			continue
		}
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entities = append(entities, m)
		if limit > 0 && len(entities) >= limit {
			break
		}
	}
	return entities
}

// TruncateRunes 按字符截断字符串
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
