package config

import (
	"fmt"

	"github.com/skillsenselab/scribekit/chunk"
	"github.com/skillsenselab/scribekit/logger"
	"github.com/skillsenselab/scribekit/pipeline"
	"github.com/skillsenselab/scribekit/redis"
	"github.com/skillsenselab/scribekit/transcription/whisper"
)

// ServiceName is the default name used for config file and env lookup.
const ServiceName = "scribekit"

// Config aggregates all scribekit configuration sections. Each section
// is owned by its package; this struct only ties them to one loadable
// document.
type Config struct {
	Base     BaseConfig        `yaml:"base" mapstructure:"base"`
	Logging  logger.Config     `yaml:"logging" mapstructure:"logging"`
	Pipeline pipeline.Config   `yaml:"pipeline" mapstructure:"pipeline"`
	Chunking chunk.SizerConfig `yaml:"chunking" mapstructure:"chunking"`
	Redis    redis.Config      `yaml:"redis" mapstructure:"redis"`
	Whisper  whisper.Config    `yaml:"whisper" mapstructure:"whisper"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Base.Name == "" {
		c.Base.Name = ServiceName
	}
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Chunking.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Whisper.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Whisper.Validate(); err != nil {
		return fmt.Errorf("whisper: %w", err)
	}
	return nil
}

// Load reads the full scribekit configuration: defaults, then the
// config file, then SCRIBEKIT_* environment overrides.
func Load(opts LoaderConfig) (*Config, error) {
	cfg := &Config{}
	if err := NewLoader().Load(ServiceName, cfg, opts); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
