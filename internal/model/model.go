package model

import (
	"fmt"
	"strings"
	"time"
)

// Category 事件类别（封闭枚举）
type Category string

const (
	CategoryConflict       Category = "conflict"
	CategoryProtest        Category = "protest"
	CategoryDisaster       Category = "disaster"
	CategoryDiplomatic     Category = "diplomatic"
	CategoryEconomic       Category = "economic"
	CategoryTerrorism      Category = "terrorism"
	CategoryCyber          Category = "cyber"
	CategoryHealth         Category = "health"
	CategoryEnvironmental  Category = "environmental"
	CategoryMilitary       Category = "military"
	CategoryCrime          Category = "crime"
	CategoryPiracy         Category = "piracy"
	CategoryInfrastructure Category = "infrastructure"
	CategoryCommodities    Category = "commodities"
)

// Categories 按稳定顺序列出全部类别
var Categories = []Category{
	CategoryConflict, CategoryProtest, CategoryDisaster, CategoryDiplomatic,
	CategoryEconomic, CategoryTerrorism, CategoryCyber, CategoryHealth,
	CategoryEnvironmental, CategoryMilitary, CategoryCrime, CategoryPiracy,
	CategoryInfrastructure, CategoryCommodities,
}

// ParseCategory 解析类别字符串，非法值返回错误
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// ThreatLevel 威胁等级（封闭枚举）
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "critical"
	ThreatHigh     ThreatLevel = "high"
	ThreatMedium   ThreatLevel = "medium"
	ThreatLow      ThreatLevel = "low"
	ThreatInfo     ThreatLevel = "info"
)

// ThreatLevels 按严重程度从高到低排列
var ThreatLevels = []ThreatLevel{ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow, ThreatInfo}

// ParseThreatLevel 解析威胁等级字符串，非法值返回错误
func ParseThreatLevel(s string) (ThreatLevel, error) {
	l := ThreatLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ThreatLevels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown threat level: %q", s)
}

// Priority 返回排序优先级：critical=0 … info=4，未知值=5
func (l ThreatLevel) Priority() int {
	switch l {
	case ThreatCritical:
		return 0
	case ThreatHigh:
		return 1
	case ThreatMedium:
		return 2
	case ThreatLow:
		return 3
	case ThreatInfo:
		return 4
	default:
		return 5
	}
}

// GeoLocation 地理位置值对象
// PlaceName 永远非空，且不是 "unknown"/"global" 一类的占位词
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"placeName"`
	Country   string  `json:"country,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// ThreatEvent 一条已分类、已定位的安全事件记录
type ThreatEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Category    Category    `json:"category"`
	ThreatLevel ThreatLevel `json:"threatLevel"`
	Location    GeoLocation `json:"location"`
	Timestamp   time.Time   `json:"timestamp"`
	Source      string      `json:"source"`
	SourceURL   string      `json:"sourceUrl"`
	Entities    []string    `json:"entities"`
	Keywords    []string    `json:"keywords"`
	RawContent  string      `json:"rawContent"`
}

// Source 一条引用来源
type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ChunkType 冲突分析流的块类型
type ChunkType string

const (
	ChunkCurrentContent ChunkType = "current_content"
	ChunkCurrentSources ChunkType = "current_sources"
	ChunkPastContent    ChunkType = "past_content"
	ChunkPastSources    ChunkType = "past_sources"
	ChunkDone           ChunkType = "done"
	ChunkError          ChunkType = "error"
)

// ConflictStreamChunk 两阶段冲突分析流的一个标记块
// 每条流恰好以一个 done 或 error 终止
type ConflictStreamChunk struct {
	Type    ChunkType `json:"type"`
	Content string    `json:"content,omitempty"`
	Sources []Source  `json:"sources,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Terminal 判断该块是否为终止块
func (c ConflictStreamChunk) Terminal() bool {
	return c.Type == ChunkDone || c.Type == ChunkError
}

// TaskStatus 深度研究任务状态，单调趋向 completed/failed
type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal 判断任务状态是否为终态
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskProgress 任务进度，仅当提供方上报时存在
type TaskProgress struct {
	CurrentStep int `json:"currentStep"`
	TotalSteps  int `json:"totalSteps"`
}

// Deliverable 任务产出物（数据导出、幻灯片等）
type Deliverable struct {
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status"`
}

// Ready 产出物仅在自身完成且有下载地址时可用
func (d Deliverable) Ready() bool {
	return d.Status == "completed" && d.URL != ""
}

// DeepResearchTask 远端研究任务的只读快照
type DeepResearchTask struct {
	TaskID       string        `json:"taskId"`
	Status       TaskStatus    `json:"status"`
	Progress     *TaskProgress `json:"progress,omitempty"`
	Output       string        `json:"output,omitempty"`
	Sources      []Source      `json:"sources,omitempty"`
	Deliverables []Deliverable `json:"deliverables,omitempty"`
	PDFURL       string        `json:"pdfUrl,omitempty"`
	Error        string        `json:"error,omitempty"`
}
