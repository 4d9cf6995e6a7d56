package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/threat_radar/internal/config"
)

// NewHTTPServer 创建 HTTP 服务并挂载全部路由
func NewHTTPServer(c config.ServerConfig, s *Service) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/events", s.handleEvents)
	srv.HandleFunc("/countries/conflicts", s.handleConflicts)
	srv.HandleFunc("/deepresearch", s.handleCreateResearch)
	srv.HandleFunc("/deepresearch/{taskId}", s.handleResearchStatus)
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
	})
	srv.Handle("/metrics", promhttp.Handler())

	return srv
}
