package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all service configuration, resolved once at startup.
type Config struct {
	// Server settings
	HTTPAddress  string
	AllowOrigins string
	LogLevel     string

	// Model settings
	ModelPath string
	MaxBatch  int

	// Threshold policy
	SystemProfile string
	SpamThreshold string

	// ThresholdOverride is SpamThreshold parsed and validated. Nil when
	// unset or invalid; invalid values are logged, never fatal.
	ThresholdOverride *float64 `mapstructure:"-"`
}

// Load reads configuration from an optional config file and environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"HTTPAddress":   "HTTP_ADDRESS",
		"AllowOrigins":  "ALLOW_ORIGINS",
		"LogLevel":      "LOG_LEVEL",
		"ModelPath":     "MODEL_PATH",
		"MaxBatch":      "MAX_BATCH",
		"SystemProfile": "SYSTEM_PROFILE",
		"SpamThreshold": "SPAM_THRESHOLD",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("detector_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	config.ThresholdOverride = parseThresholdOverride(config.SpamThreshold)
	config.SystemProfile = strings.ToLower(strings.TrimSpace(config.SystemProfile))

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":8000")
	v.SetDefault("AllowOrigins", "*")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("ModelPath", "models/bundle.json")
	v.SetDefault("MaxBatch", 1000)
	v.SetDefault("SystemProfile", "default")
}

func validateConfig(config *Config) error {
	if config.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH must not be empty")
	}
	if config.MaxBatch <= 0 {
		return fmt.Errorf("MAX_BATCH must be positive, got %d", config.MaxBatch)
	}
	return nil
}

// parseThresholdOverride turns the optional SPAM_THRESHOLD value into a
// validated float. Out-of-range and unparsable values are discarded so a
// bad override degrades to profile-based thresholds instead of refusing
// to start.
func parseThresholdOverride(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("value", raw).Msg("Invalid SPAM_THRESHOLD value, ignoring")
		return nil
	}
	if value < 0 || value > 1 {
		log.Warn().Float64("value", value).Msg("SPAM_THRESHOLD outside [0,1], ignoring")
		return nil
	}
	return &value
}

// Origins splits the comma-separated allowed origins list.
func (c *Config) Origins() []string {
	if c.AllowOrigins == "" || c.AllowOrigins == "*" {
		return []string{"*"}
	}
	parts := strings.Split(c.AllowOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
