package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Detect   DetectConfig   `yaml:"detect" mapstructure:"detect"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures where batch run history is recorded.
// Driver is one of sqlite, postgres, or none.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// NotionConfig holds Notion API credentials for pushing cleaned leads.
type NotionConfig struct {
	Token        string  `yaml:"token" mapstructure:"token"`
	LeadDB       string  `yaml:"lead_db" mapstructure:"lead_db"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	MaxRetries   int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// DetectConfig configures automatic column detection.
type DetectConfig struct {
	SampleSize int `yaml:"sample_size" mapstructure:"sample_size"`
}

// PipelineConfig configures batch processing.
type PipelineConfig struct {
	DedupMode   string `yaml:"dedup_mode" mapstructure:"dedup_mode"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// ScoringConfig configures the lead scorer.
type ScoringConfig struct {
	FreeDomains    []string `yaml:"free_domains" mapstructure:"free_domains"`
	IntentKeywords []string `yaml:"intent_keywords" mapstructure:"intent_keywords"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB    int64    `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADCLEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadclean.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.rate_limit_rps", 5)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("detect.sample_size", 30)
	v.SetDefault("pipeline.dedup_mode", "field")
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("scoring.free_domains", []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"})
	v.SetDefault("scoring.intent_keywords", []string{"price", "pricing", "quotation", "quote", "order", "buy", "requirement"})
	v.SetDefault("notion.rate_limit_rps", 3)
	v.SetDefault("notion.max_retries", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
