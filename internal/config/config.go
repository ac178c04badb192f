package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Stories  StoriesConfig
	Sampler  SamplerConfig
	Risk     RiskConfig
	Progress ProgressConfig
	AI       AIConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// Addr returns the listen address. PORT may be a bare port or a full
// host:port so ":8080" and "127.0.0.1:8080" both work.
func (c ServerConfig) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// StoriesConfig points the catalog at the external content service. With an
// empty URL the built-in seed stories are served instead.
type StoriesConfig struct {
	UpstreamURL string        `envconfig:"STORIES_UPSTREAM_URL"`
	Timeout     time.Duration `envconfig:"STORIES_TIMEOUT" default:"10s"`
}

// SamplerConfig controls the emotion sampling loop.
type SamplerConfig struct {
	Interval time.Duration `envconfig:"SAMPLER_INTERVAL" default:"3s"`
}

// RiskConfig controls unsafe-choice detection.
type RiskConfig struct {
	Keywords  []string `envconfig:"RISK_KEYWORDS"`
	Threshold int      `envconfig:"RISK_ALERT_THRESHOLD" default:"2"`
}

// ProgressConfig points the reporter at the external quiz/progress service.
// With an empty URL completed-session summaries are kept local only.
type ProgressConfig struct {
	URL     string        `envconfig:"PROGRESS_URL"`
	Timeout time.Duration `envconfig:"PROGRESS_TIMEOUT" default:"10s"`
}

// AIConfig describes the Ark chat model backing the frame classifier.
type AIConfig struct {
	APIKey      string  `envconfig:"ARK_API_KEY"`
	AccessKey   string  `envconfig:"ARK_ACCESS_KEY"`
	SecretKey   string  `envconfig:"ARK_SECRET_KEY"`
	Model       string  `envconfig:"ARK_MODEL"`
	BaseURL     string  `envconfig:"ARK_BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string  `envconfig:"ARK_REGION" default:"cn-beijing"`
	Temperature float32 `envconfig:"ARK_TEMPERATURE" default:"0.2"`
}

// Enabled reports whether the required model credentials were provided.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := c.Temperature
	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if strings.Contains(cfg.Server.Port, " ") {
		return nil, fmt.Errorf("invalid PORT value: %q", cfg.Server.Port)
	}
	return &cfg, nil
}
