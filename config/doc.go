// Package config loads service configuration from YAML files and
// environment variables using viper, with optional .env loading via
// godotenv.
//
// Each scribekit package owns its Config struct with ApplyDefaults
// and Validate methods; Config aggregates them into one loadable
// document:
//
//	cfg, err := config.Load(config.LoaderConfig{})
//	log := logger.New(&cfg.Logging, cfg.Base.Name)
//
// Precedence: struct defaults, then the config file, then SCRIBEKIT_*
// environment variables.
package config
