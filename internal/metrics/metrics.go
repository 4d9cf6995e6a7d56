package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 本地顾问型计数器，仅用于观测单实例用量，不做分布式限流

var (
	// EventsIngested 最终进入输出批次的事件数
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threat_radar_events_ingested_total",
		Help: "Number of threat events that made it into an assembled batch.",
	})

	// EventsDiscarded 按原因统计被丢弃的结果数
	EventsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threat_radar_events_discarded_total",
		Help: "Number of raw results discarded during assembly, by reason.",
	}, []string{"reason"})

	// ProviderErrors 按提供方统计上游调用失败数
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threat_radar_provider_errors_total",
		Help: "Number of upstream provider call failures, by provider.",
	}, []string{"provider"})

	// ResearchPolls 深度研究任务的轮询次数
	ResearchPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threat_radar_research_polls_total",
		Help: "Number of deep-research status polls issued.",
	})
)
