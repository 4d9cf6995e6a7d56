package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/go-kratos/kratos/v2"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/threat_radar/internal/answer"
	"github.com/iWorld-y/threat_radar/internal/assemble"
	"github.com/iWorld-y/threat_radar/internal/classify"
	"github.com/iWorld-y/threat_radar/internal/config"
	"github.com/iWorld-y/threat_radar/internal/geo"
	"github.com/iWorld-y/threat_radar/internal/geo/mapbox"
	"github.com/iWorld-y/threat_radar/internal/logger"
	"github.com/iWorld-y/threat_radar/internal/research"
	"github.com/iWorld-y/threat_radar/internal/search/factory"
	"github.com/iWorld-y/threat_radar/internal/server"
	"github.com/iWorld-y/threat_radar/internal/store"
	"github.com/iWorld-y/threat_radar/internal/stream"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动威胁雷达...")

	ctx := context.Background()

	// 3. 初始化 LLM（可选：未配置时分类与地名提取走确定性回退）
	var chatModel model.ChatModel
	if cfg.LLM.Enabled() {
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			logger.Log.Fatalf("LLM 初始化失败: %v", err)
		}
	} else {
		logger.Log.Info("未配置 LLM，使用关键词回退分类")
	}

	// 4. 初始化限流器
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, cfg.Concurrency.QPS)

	// 5. 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		logger.Log.Fatalf("搜索客户端初始化失败: %v", err)
	}

	// 6. 地名解析：速查表 + 可选远端编码 + 可选 AI 提取
	var geocoder geo.Geocoder
	if cfg.Geocoder.AccessToken != "" {
		geocoder = mapbox.NewClient(cfg.Geocoder.AccessToken, cfg.Geocoder.BaseURL)
	} else {
		logger.Log.Info("未配置地理编码服务，仅使用内置速查表")
	}
	resolver := geo.NewResolver(geocoder, chatModel, limiter)

	// 7. 分类编排器
	var aiClassifier classify.Classifier
	if chatModel != nil {
		aiClassifier = classify.NewAIClassifier(chatModel, resolver, limiter)
	}
	engine := classify.NewEngine(aiClassifier, classify.NewKeywordClassifier(resolver))

	// 8. 事件编排与缓存
	assembler := assemble.NewAssembler(searcher, engine, limiter, cfg.Fetch.MaxResults)
	events := store.NewEventsStore(cfg.Fetch.CacheCap)

	// 9. 分析类能力（可选）
	var relay *stream.Relay
	if cfg.Answer.BaseURL != "" {
		relay = stream.NewRelay(answer.NewClient(cfg.Answer.APIKey, cfg.Answer.BaseURL, cfg.Answer.Streaming))
	}
	var researcher server.Researcher
	if cfg.Research.BaseURL != "" {
		researcher = research.NewClient(cfg.Research.APIKey, cfg.Research.BaseURL)
	}

	pollInterval := parseDuration(cfg.Research.PollInterval, 5*time.Second)

	svc := server.NewService(assembler, events, relay, researcher,
		cfg.Queries, pollInterval, cfg.Research.MaxAttempts)
	httpSrv := server.NewHTTPServer(cfg.Server, svc)

	// 10. 周期抓取：定期重建事件缓存
	fetchCtx, stopFetch := context.WithCancel(ctx)
	defer stopFetch()
	go runFetchLoop(fetchCtx, assembler, events, cfg.Queries, parseDuration(cfg.Fetch.Interval, 10*time.Minute))

	app := kratos.New(
		kratos.Name("threat_radar"),
		kratos.Server(httpSrv),
	)
	if err := app.Run(); err != nil {
		logger.Log.Fatalf("服务退出: %v", err)
	}
}

// runFetchLoop 周期性重建事件缓存；状态是临时的，每轮整体替换
func runFetchLoop(ctx context.Context, assembler *assemble.Assembler, events *store.EventsStore, queries []string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fetch := func() {
		batch, err := assembler.FetchAndAssemble(ctx, queries, "")
		if err != nil {
			logger.Log.Errorf("周期抓取失败: %v", err)
			return
		}
		events.SetEvents(batch)
		logger.Log.Infof("事件缓存已刷新: %d 条", len(batch))
	}

	fetch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		}
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
