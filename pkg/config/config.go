package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
		Rate    struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate"`
	} `yaml:"provider"`
	MarketData struct {
		Granularity   string        `yaml:"granularity"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		RetryAttempts int           `yaml:"retry_attempts"`
		RetryBackoff  time.Duration `yaml:"retry_backoff"`
		TickerDelay   time.Duration `yaml:"ticker_delay"`
		MinAssets     int           `yaml:"min_assets"`
		MinCoverage   float64       `yaml:"min_coverage"`
	} `yaml:"market_data"`
	Regime struct {
		Lookback   int    `yaml:"lookback"`
		Classifier string `yaml:"classifier"` // covariance | diagonal
		Thresholds struct {
			Normal  float64 `yaml:"normal"`
			HighVol float64 `yaml:"high_vol"`
			Crisis  float64 `yaml:"crisis"`
		} `yaml:"thresholds"`
	} `yaml:"regime"`
	Stress struct {
		DefaultCapital float64 `yaml:"default_capital"`
	} `yaml:"stress"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// applyDefaults fills the reference behavior for anything the file left unset.
func (c *Config) applyDefaults() {
	if c.MarketData.Granularity == "" {
		c.MarketData.Granularity = "day"
	}
	if c.MarketData.CacheTTL <= 0 {
		c.MarketData.CacheTTL = time.Hour
	}
	if c.MarketData.RetryAttempts <= 0 {
		c.MarketData.RetryAttempts = 3
	}
	if c.MarketData.RetryBackoff <= 0 {
		c.MarketData.RetryBackoff = 300 * time.Millisecond
	}
	if c.MarketData.TickerDelay <= 0 {
		c.MarketData.TickerDelay = 300 * time.Millisecond
	}
	if c.MarketData.MinAssets <= 0 {
		c.MarketData.MinAssets = 3
	}
	if c.MarketData.MinCoverage <= 0 {
		c.MarketData.MinCoverage = 0.8
	}
	if c.Regime.Lookback <= 0 {
		c.Regime.Lookback = 60
	}
	if c.Regime.Classifier == "" {
		c.Regime.Classifier = "covariance"
	}
	if c.Regime.Thresholds.Normal <= 0 {
		c.Regime.Thresholds.Normal = 8
	}
	if c.Regime.Thresholds.HighVol <= 0 {
		c.Regime.Thresholds.HighVol = 15
	}
	if c.Regime.Thresholds.Crisis <= 0 {
		c.Regime.Thresholds.Crisis = 25
	}
	if c.Stress.DefaultCapital <= 0 {
		c.Stress.DefaultCapital = 100_000
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = 30 * time.Second
	}
	if c.Provider.Rate.Capacity <= 0 {
		c.Provider.Rate.Capacity = 5
	}
	if c.Provider.Rate.RefillPerSec <= 0 {
		c.Provider.Rate.RefillPerSec = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Regime.Classifier != "covariance" && c.Regime.Classifier != "diagonal" {
		return fmt.Errorf("regime.classifier must be 'covariance' or 'diagonal', got '%s'", c.Regime.Classifier)
	}
	th := c.Regime.Thresholds
	if !(th.Normal < th.HighVol && th.HighVol < th.Crisis) {
		return fmt.Errorf("regime.thresholds must be strictly increasing (normal < high_vol < crisis)")
	}
	if c.MarketData.MinCoverage > 1 {
		return fmt.Errorf("market_data.min_coverage must be in (0, 1]")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	return nil
}
