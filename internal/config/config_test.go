package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "All_Diets.csv", cfg.Input)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, 5, cfg.TopN)
	assert.True(t, cfg.Charts)
	assert.True(t, cfg.Workbook)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "datasets", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.PathStyle)
	assert.Equal(t, "results/diet_summary.json", cfg.Storage.SummaryKey)
	assert.Equal(t, "simulated_nosql_results.json", cfg.Results.File)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, ":8080", cfg.API.Addr)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DIET_TOP_N", "3")
	t.Setenv("DIET_STORAGE_BUCKET", "recipes")
	t.Setenv("DIET_RESULTS_REDIS_TTL", "1h")
	t.Setenv("DIET_EVENTS_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, "recipes", cfg.Storage.Bucket)
	assert.Equal(t, time.Hour, cfg.Results.RedisTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.True(t, cfg.Events.Enabled())
}

func TestLoad_ConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
output_dir: reports
storage:
  driver: dir
  dir: /tmp/blobs
events:
  brokers: [localhost:9092]
  topic: uploads
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, "dir", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/blobs", cfg.Storage.Dir)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "uploads", cfg.Events.Topic)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TopN:      5,
			OutputDir: "output",
			Storage:   StorageConfig{Driver: "s3", Bucket: "datasets", SummaryKey: "summary.json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		err    string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero top n", func(c *Config) { c.TopN = 0 }, "top_n must be positive"},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, "output_dir"},
		{"no bucket", func(c *Config) { c.Storage.Bucket = "" }, "storage.bucket"},
		{"dir driver without dir", func(c *Config) { c.Storage.Driver = "dir" }, "storage.dir"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "gcs" }, `unknown storage.driver "gcs"`},
		{"no summary key", func(c *Config) { c.Storage.SummaryKey = "" }, "storage.summary_key"},
		{"brokers without topic", func(c *Config) { c.Events.Brokers = []string{"k:9092"} }, "events.topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DIET_TOP_N", "0")

	_, err := Load(viper.New())
	assert.ErrorContains(t, err, "configuration validation failed")
}
