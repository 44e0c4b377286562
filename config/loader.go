package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds options for loading configuration.
type LoaderConfig struct {
	// ConfigFile is an explicit config file path. When empty, standard
	// locations are searched.
	ConfigFile string
	// EnvFile is an explicit .env file path. When empty, standard
	// locations are searched.
	EnvFile string
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. "SCRIBEKIT" matches SCRIBEKIT_PIPELINE_MAX_CONCURRENCY).
	EnvPrefix string
}

// Loader finds and loads configuration for a service.
type Loader struct {
	FileSystem FileSystem
}

// NewLoader creates a Loader backed by the real filesystem.
func NewLoader() *Loader {
	return &Loader{FileSystem: &RealFileSystem{}}
}

// Load reads configuration into cfg. The precedence order is:
// defaults in the struct, then the config file, then environment
// variables (with EnvPrefix). A missing config file is not an error;
// the struct's ApplyDefaults is expected to cover that case.
func (l *Loader) Load(serviceName string, cfg any, opts LoaderConfig) error {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = l.findEnvFile(serviceName)
	}
	if envFile != "" && l.FileSystem.Exists(envFile) {
		if err := l.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = l.findConfigFile(serviceName)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
	}
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// findConfigFile searches for config.yml in standard locations.
func (l *Loader) findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./%s.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
	for _, path := range searchPaths {
		if l.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func (l *Loader) findEnvFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}
	for _, path := range searchPaths {
		if l.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}
