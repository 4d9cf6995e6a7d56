package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dm "github.com/iWorld-y/threat_radar/internal/model"
)

func makeEvent(i int, level dm.ThreatLevel, ts time.Time) dm.ThreatEvent {
	return dm.ThreatEvent{
		ID:          fmt.Sprintf("ev-%04d", i),
		Title:       fmt.Sprintf("Event %d", i),
		Summary:     "summary",
		Category:    dm.CategoryConflict,
		ThreatLevel: level,
		Location:    dm.GeoLocation{Latitude: 50.45, Longitude: 30.52, PlaceName: "Kyiv", Country: "Ukraine"},
		Timestamp:   ts,
	}
}

func TestStoreCapBoundsMemory(t *testing.T) {
	s := NewEventsStore(0)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var batch []dm.ThreatEvent
	for i := 0; i < 2000; i++ {
		batch = append(batch, makeEvent(i, dm.ThreatMedium, base.Add(time.Duration(i)*time.Minute)))
	}
	s.SetEvents(batch)
	require.Equal(t, DefaultCapacity, s.Len())

	var more []dm.ThreatEvent
	for i := 2000; i < 2050; i++ {
		more = append(more, makeEvent(i, dm.ThreatMedium, base.Add(time.Duration(i)*time.Minute)))
	}
	s.AddEvents(more)
	require.Equal(t, DefaultCapacity, s.Len())

	// 淘汰按插入顺序：最旧的被挤出，最近插入的全部保留
	ids := make(map[string]struct{})
	for _, ev := range s.Events() {
		ids[ev.ID] = struct{}{}
	}
	require.Contains(t, ids, "ev-2049")
	require.Contains(t, ids, "ev-1050")
	require.NotContains(t, ids, "ev-1049")
	require.NotContains(t, ids, "ev-0000")
}

func TestStoreEventsSorted(t *testing.T) {
	s := NewEventsStore(10)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	s.SetEvents([]dm.ThreatEvent{
		makeEvent(1, dm.ThreatLow, base.Add(1*time.Hour)),
		makeEvent(2, dm.ThreatCritical, base),
		makeEvent(3, dm.ThreatLow, base.Add(2*time.Hour)),
		makeEvent(4, dm.ThreatHigh, base),
	})

	out := s.Events()
	require.Len(t, out, 4)
	require.Equal(t, "ev-0002", out[0].ID)
	require.Equal(t, "ev-0004", out[1].ID)
	// 同级内时间戳降序
	require.Equal(t, "ev-0003", out[2].ID)
	require.Equal(t, "ev-0001", out[3].ID)
}

func TestStoreFilteredEvents(t *testing.T) {
	s := NewEventsStore(10)
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	protest := makeEvent(1, dm.ThreatLow, base)
	protest.Category = dm.CategoryProtest
	protest.Title = "Marchers fill the square in Lima"
	protest.Location = dm.GeoLocation{Latitude: -12.05, Longitude: -77.04, PlaceName: "Lima", Country: "Peru"}

	conflict := makeEvent(2, dm.ThreatHigh, base.Add(48*time.Hour))
	conflict.Title = "Shelling intensifies near the front"

	s.SetEvents([]dm.ThreatEvent{protest, conflict})

	s.SetFilters(Filters{Categories: []dm.Category{dm.CategoryProtest}})
	out := s.FilteredEvents()
	require.Len(t, out, 1)
	require.Equal(t, "ev-0001", out[0].ID)

	s.SetFilters(Filters{ThreatLevels: []dm.ThreatLevel{dm.ThreatHigh, dm.ThreatCritical}})
	out = s.FilteredEvents()
	require.Len(t, out, 1)
	require.Equal(t, "ev-0002", out[0].ID)

	end := base.Add(time.Hour)
	s.SetFilters(Filters{End: &end})
	out = s.FilteredEvents()
	require.Len(t, out, 1)
	require.Equal(t, "ev-0001", out[0].ID)

	// 地名大小写不敏感子串匹配
	s.SetFilters(Filters{SearchText: "lima"})
	out = s.FilteredEvents()
	require.Len(t, out, 1)
	require.Equal(t, "ev-0001", out[0].ID)

	s.SetFilters(Filters{SearchText: "nowhere"})
	require.Empty(t, s.FilteredEvents())

	// 过滤是纯重算，放开条件后全量可见
	s.SetFilters(Filters{})
	require.Len(t, s.FilteredEvents(), 2)
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewEventsStore(10)
	s.SetEvents([]dm.ThreatEvent{makeEvent(1, dm.ThreatLow, time.Now())})

	out := s.Events()
	out[0].Title = "mutated"

	require.Equal(t, "Event 1", s.Events()[0].Title)
}
