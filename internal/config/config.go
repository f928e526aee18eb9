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
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Extractor  ExtractorConfig  `yaml:"extractor" mapstructure:"extractor"`
	Checkpoint CheckpointConfig `yaml:"checkpoint" mapstructure:"checkpoint"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	SMTP       SMTPConfig       `yaml:"smtp" mapstructure:"smtp"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SearchConfig configures the category-expansion search pipeline.
type SearchConfig struct {
	Categories           []string `yaml:"categories" mapstructure:"categories"`
	CountryHint          string   `yaml:"country_hint" mapstructure:"country_hint"`
	DetailConcurrency    int      `yaml:"detail_concurrency" mapstructure:"detail_concurrency"`
	CheckpointEvery      int      `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	ChainListPath        string   `yaml:"chain_list_path" mapstructure:"chain_list_path"`
	ChainReviewThreshold int      `yaml:"chain_review_threshold" mapstructure:"chain_review_threshold"`
}

// ExtractorConfig configures the content extraction service client.
type ExtractorConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	Key            string  `yaml:"key" mapstructure:"key"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// CheckpointConfig configures the durable checkpoint backend.
type CheckpointConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig configures spreadsheet export.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// SMTPConfig configures completion notification email. Leaving Host empty
// disables sending.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("search.categories", []string{
		"restaurantes", "tiendas", "servicios", "salud",
		"belleza", "talleres", "hoteles", "educacion",
	})
	v.SetDefault("search.country_hint", "Peru")
	v.SetDefault("search.detail_concurrency", 4)
	v.SetDefault("search.checkpoint_every", 20)
	v.SetDefault("search.chain_review_threshold", 500)
	v.SetDefault("extractor.base_url", "http://localhost:7700")
	v.SetDefault("extractor.timeout_secs", 60)
	v.SetDefault("extractor.requests_per_sec", 2)
	v.SetDefault("checkpoint.driver", "sqlite")
	v.SetDefault("checkpoint.path", "prospector.db")
	v.SetDefault("export.dir", "exports")
	v.SetDefault("smtp.port", 587)

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
