// Package config resolves runtime settings from flags, environment
// variables and an optional YAML file through viper.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/zwift-ocr/internal/logging"
	"github.com/ironsheep/zwift-ocr/internal/ocr"
)

// EnvPrefix prefixes every environment variable, e.g. ZWIFT_OCR_POOL_SIZE.
const EnvPrefix = "ZWIFT_OCR"

// Keys understood by Load. Flags use the same names with dashes.
const (
	KeyTessdataPrefix   = "tessdata_prefix"
	KeyLanguage         = "language"
	KeyNeuralModel      = "neural_model"
	KeyNeuralVocabulary = "neural_vocabulary"
	KeyNeuralGrayscale  = "neural_grayscale"
	KeyRegionDir        = "region_dir"
	KeyPoolSize         = "pool_size"
	KeyDebug            = "debug"
	KeyLogLevel         = "log_level"
	KeyMetricsAddr      = "metrics_addr"
)

var keys = []string{
	KeyTessdataPrefix, KeyLanguage, KeyNeuralModel, KeyNeuralVocabulary,
	KeyNeuralGrayscale, KeyRegionDir, KeyPoolSize, KeyDebug, KeyLogLevel,
	KeyMetricsAddr,
}

// Config holds the resolved configuration.
type Config struct {
	TessdataPrefix   string `mapstructure:"tessdata_prefix"`
	Language         string `mapstructure:"language"`
	NeuralModel      string `mapstructure:"neural_model"`
	NeuralVocabulary string `mapstructure:"neural_vocabulary"`
	NeuralGrayscale  bool   `mapstructure:"neural_grayscale"`
	RegionDir        string `mapstructure:"region_dir"`
	PoolSize         int    `mapstructure:"pool_size"`
	Debug            bool   `mapstructure:"debug"`
	LogLevel         string `mapstructure:"log_level"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLanguage, ocr.DefaultLanguage)
	v.SetDefault(KeyRegionDir, "regions")
	v.SetDefault(KeyPoolSize, 0)
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads the configuration from v. Environment variables with EnvPrefix
// override the config file; bound flags override both.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows, so bind each explicitly.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logging.DebugEnabled() {
		cfg.Debug = true
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return &cfg, nil
}

// Validate rejects values that cannot work.
func (c *Config) Validate() error {
	if c.PoolSize < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyPoolSize, c.PoolSize)
	}
	if c.PoolSize > 4*runtime.NumCPU() {
		return fmt.Errorf("%s %d exceeds 4x the CPU count", KeyPoolSize, c.PoolSize)
	}
	return nil
}

// EffectivePoolSize returns PoolSize, or the default when it is zero.
func (c *Config) EffectivePoolSize() int {
	if c.PoolSize > 0 {
		return c.PoolSize
	}
	return ocr.DefaultPoolSize()
}

// Tesseract returns the classical engine settings.
func (c *Config) Tesseract() ocr.TesseractConfig {
	return ocr.TesseractConfig{
		TessdataPrefix: c.TessdataPrefix,
		Language:       c.Language,
	}
}

// Neural returns the neural engine settings.
func (c *Config) Neural() ocr.NeuralConfig {
	return ocr.NeuralConfig{
		ModelPath:      c.NeuralModel,
		VocabularyPath: c.NeuralVocabulary,
		Grayscale:      c.NeuralGrayscale,
	}
}
