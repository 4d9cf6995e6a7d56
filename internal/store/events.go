package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	dm "github.com/iWorld-y/threat_radar/internal/model"
)

// DefaultCapacity 事件缓存默认上限
const DefaultCapacity = 1000

// Filters 过滤条件，零值字段不参与过滤
type Filters struct {
	Start        *time.Time
	End          *time.Time
	Categories   []dm.Category
	ThreatLevels []dm.ThreatLevel
	// SearchText 对标题/摘要/地名/国家做大小写不敏感子串匹配
	SearchText string
}

// EventsStore 有界事件缓存与过滤引擎
// 插入顺序只用于淘汰，输出顺序每次重算
type EventsStore struct {
	mu       sync.RWMutex
	events   []dm.ThreatEvent
	filters  Filters
	capacity int
}

// NewEventsStore 创建缓存，capacity<=0 时用默认值
func NewEventsStore(capacity int) *EventsStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventsStore{capacity: capacity}
}

// SetEvents 整体替换缓存内容，超限时保留最近插入的部分
func (s *EventsStore) SetEvents(events []dm.ThreatEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]dm.ThreatEvent(nil), events...)
	s.trim()
}

// AddEvents 追加新事件，超限时先淘汰最旧的
func (s *EventsStore) AddEvents(events []dm.ThreatEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	s.trim()
}

// trim 保留最近 capacity 条（按插入顺序）
func (s *EventsStore) trim() {
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = append([]dm.ThreatEvent(nil), s.events[over:]...)
	}
}

// SetFilters 更新过滤条件
func (s *EventsStore) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
}

// Len 当前缓存的事件数
func (s *EventsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Events 返回全部缓存事件的排序副本
func (s *EventsStore) Events() []dm.ThreatEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]dm.ThreatEvent(nil), s.events...)
	sortEvents(out)
	return out
}

// FilteredEvents 纯重算：应用过滤条件并排序，不做增量维护
func (s *EventsStore) FilteredEvents() []dm.ThreatEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []dm.ThreatEvent
	for _, ev := range s.events {
		if s.filters.match(ev) {
			out = append(out, ev)
		}
	}

	sortEvents(out)
	return out
}

// match 各条件逐一判断，全部通过才保留
func (f Filters) match(ev dm.ThreatEvent) bool {
	if f.Start != nil && ev.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && ev.Timestamp.After(*f.End) {
		return false
	}

	if len(f.Categories) > 0 && !containsCategory(f.Categories, ev.Category) {
		return false
	}
	if len(f.ThreatLevels) > 0 && !containsLevel(f.ThreatLevels, ev.ThreatLevel) {
		return false
	}

	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(ev.Title), needle) &&
			!strings.Contains(strings.ToLower(ev.Summary), needle) &&
			!strings.Contains(strings.ToLower(ev.Location.PlaceName), needle) &&
			!strings.Contains(strings.ToLower(ev.Location.Country), needle) {
			return false
		}
	}

	return true
}

func containsCategory(list []dm.Category, c dm.Category) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}

func containsLevel(list []dm.ThreatLevel, l dm.ThreatLevel) bool {
	for _, item := range list {
		if item == l {
			return true
		}
	}
	return false
}

// sortEvents 威胁优先级升序，同级时间戳降序
func sortEvents(events []dm.ThreatEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		pi, pj := events[i].ThreatLevel.Priority(), events[j].ThreatLevel.Priority()
		if pi != pj {
			return pi < pj
		}
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}
