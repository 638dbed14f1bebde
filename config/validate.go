package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Inspect.Validate(); err != nil {
		return fmt.Errorf("inspect config: %w", err)
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}

	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", l.Format)
	}

	if strings.TrimSpace(l.Output) == "" {
		return fmt.Errorf("log output is required")
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if r.Addr == "" {
		return fmt.Errorf("redis address is required when the cache is enabled")
	}

	if r.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", r.DB)
	}

	if r.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if m.Enabled && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("metrics path must start with /: %q", m.Path)
	}

	return nil
}

func (i *InspectConfig) Validate() error {
	if i.MaxFrames <= 0 {
		return fmt.Errorf("max_frames must be positive")
	}

	if i.MaxExcerptFrames <= 0 {
		return fmt.Errorf("max_excerpt_frames must be positive")
	}

	return nil
}
