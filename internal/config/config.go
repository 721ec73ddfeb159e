package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Extractor ExtractorConfig
	Cache     CacheConfig
	Scratch   ScratchConfig
	Upstream  UpstreamConfig
	HTTP      HTTPConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"5001"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"0s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        slog.Level    `envconfig:"LOG_LEVEL" default:"INFO"`
}

type ExtractorConfig struct {
	BinaryPath      string        `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	ExtractTimeout  time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"30s"`
	DownloadTimeout time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"120s"`
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

type ScratchConfig struct {
	Dir             string        `envconfig:"SCRATCH_DIR" default:"./downloads"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
}

type UpstreamConfig struct {
	UserAgent      string        `envconfig:"UPSTREAM_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
	ProbeTimeout   time.Duration `envconfig:"UPSTREAM_PROBE_TIMEOUT" default:"5s"`
	ConnectTimeout time.Duration `envconfig:"UPSTREAM_CONNECT_TIMEOUT" default:"30s"`
}

type HTTPConfig struct {
	AllowedHost        string   `envconfig:"ALLOWED_HOST" default:"linkedin.com"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	// ProxyAllowedHosts lists the media hosts the download proxy may fetch.
	// Set it empty to lift the restriction.
	ProxyAllowedHosts []string `envconfig:"PROXY_ALLOWED_HOSTS" default:"licdn.com,linkedin.com"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
