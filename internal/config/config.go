package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Answer      AnswerConfig      `yaml:"answer"`
	Research    ResearchConfig    `yaml:"research"`
	Queries     []string          `yaml:"queries"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig LLM 相关配置
// 为空时分类与地名提取走确定性回退路径，不访问模型
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Enabled 是否配置了可用的模型
func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// GeocoderConfig 地理编码服务配置
type GeocoderConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token"`
}

// AnswerConfig 问答分析服务配置
type AnswerConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Streaming 为 false 时走代理模式，单块返回整段答案
	Streaming bool `yaml:"streaming"`
}

// ResearchConfig 深度研究任务服务配置
type ResearchConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	PollInterval string `yaml:"poll_interval"`
	MaxAttempts  int    `yaml:"max_attempts"`
}

// FetchConfig 事件抓取周期配置
type FetchConfig struct {
	Interval   string `yaml:"interval"`
	MaxResults int    `yaml:"max_results"`
	// CacheCap 事件缓存上限，默认 1000
	CacheCap int `yaml:"cache_cap"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Fetch.MaxResults <= 0 {
		c.Fetch.MaxResults = 20
	}
	if c.Fetch.CacheCap <= 0 {
		c.Fetch.CacheCap = 1000
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 2
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Research.MaxAttempts <= 0 {
		c.Research.MaxAttempts = 60
	}
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.Search.Provider == "" && c.Search.Tavily.APIKey == "" {
		return fmt.Errorf("search provider not configured")
	}
	if len(c.Queries) == 0 {
		return fmt.Errorf("queries must not be empty")
	}
	return nil
}
