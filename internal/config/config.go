package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DIET_INPUT
const EnvPrefix = "DIET"

// Config holds all configuration for the application
type Config struct {
	Input     string `mapstructure:"input"`
	OutputDir string `mapstructure:"output_dir"`
	TopN      int    `mapstructure:"top_n"`
	DBPath    string `mapstructure:"db_path"`
	Charts    bool   `mapstructure:"charts"`
	Workbook  bool   `mapstructure:"workbook"`

	Storage StorageConfig `mapstructure:"storage"`
	Results ResultsConfig `mapstructure:"results"`
	Events  EventsConfig  `mapstructure:"events"`
	API     APIConfig     `mapstructure:"api"`
}

// StorageConfig configures the object store
type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // s3 or dir
	Dir        string `mapstructure:"dir"`    // root for the dir driver
	Endpoint   string `mapstructure:"endpoint"`
	Region     string `mapstructure:"region"`
	Bucket     string `mapstructure:"bucket"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	PathStyle  bool   `mapstructure:"path_style"`
	InputKey   string `mapstructure:"input_key"`
	SummaryKey string `mapstructure:"summary_key"`
}

// ResultsConfig configures where the serverless summary is persisted
type ResultsConfig struct {
	File      string        `mapstructure:"file"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisTTL  time.Duration `mapstructure:"redis_ttl"`
	ToBlob    bool          `mapstructure:"to_blob"`
}

// EventsConfig configures the Kafka upload notifications
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

// Enabled reports whether brokers are configured
func (e EventsConfig) Enabled() bool {
	return len(e.Brokers) > 0
}

// APIConfig configures the HTTP server
type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers the default of every key, so environment variables
// bind even without a config file
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "All_Diets.csv")
	v.SetDefault("output_dir", "output")
	v.SetDefault("top_n", 5)
	v.SetDefault("db_path", "pipeline.db")
	v.SetDefault("charts", true)
	v.SetDefault("workbook", true)

	v.SetDefault("storage.driver", "s3")
	v.SetDefault("storage.dir", "blobstore")
	v.SetDefault("storage.endpoint", "http://127.0.0.1:9000")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "datasets")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.path_style", true)
	v.SetDefault("storage.input_key", "All_Diets.csv")
	v.SetDefault("storage.summary_key", "results/diet_summary.json")

	v.SetDefault("results.file", "simulated_nosql_results.json")
	v.SetDefault("results.redis_addr", "")
	v.SetDefault("results.redis_ttl", time.Duration(0))
	v.SetDefault("results.to_blob", false)

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "diet-blobs")
	v.SetDefault("events.group_id", "diet-function")

	v.SetDefault("api.addr", ":8080")
}

// Load reads the configuration from v, which already has its config file and
// flags attached
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Events.Brokers = splitList(cfg.Events.Brokers)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values Load cannot default
func Validate(cfg *Config) error {
	if cfg.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", cfg.TopN)
	}
	if cfg.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	switch cfg.Storage.Driver {
	case "s3":
		if cfg.Storage.Bucket == "" {
			return errors.New("storage.bucket must not be empty")
		}
	case "dir":
		if cfg.Storage.Dir == "" {
			return errors.New("storage.dir must not be empty")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (want s3 or dir)", cfg.Storage.Driver)
	}
	if cfg.Storage.SummaryKey == "" {
		return errors.New("storage.summary_key must not be empty")
	}
	if cfg.Events.Enabled() && cfg.Events.Topic == "" {
		return errors.New("events.topic must be set when brokers are configured")
	}
	return nil
}

// splitList accepts both lists and a single comma separated value, which is
// how lists arrive from the environment
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
