package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-diet-pipeline/internal/config"
	"go-diet-pipeline/internal/events"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// UploadResult is what the upload command reports
type UploadResult struct {
	Bucket    string        `json:"bucket" yaml:"bucket"`
	Key       string        `json:"key" yaml:"key"`
	Size      int64         `json:"size_bytes" yaml:"size_bytes"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	URL       string        `json:"url" yaml:"url"`
	Published bool          `json:"published" yaml:"published"`
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file] [key]",
	Short: "Upload the dataset to the object store",
	Long: `Upload creates the bucket when needed, stores the dataset under the
configured key and, when Kafka brokers are configured, announces the new blob
so a listening function can process it.`,
	Example: `  diet-pipeline upload
  diet-pipeline upload data/All_Diets.csv All_Diets.csv`,
	Args: cobra.MaximumNArgs(2),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, key := cfg.Input, cfg.Storage.InputKey
	if len(args) > 0 {
		file = args[0]
		key = filepath.Base(file)
	}
	if len(args) > 1 {
		key = args[1]
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("🪣 Ensuring bucket exists")
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}

	start := time.Now()
	if err := store.Put(ctx, key, data, "text/csv"); err != nil {
		return err
	}
	result := UploadResult{
		Bucket:   cfg.Storage.Bucket,
		Key:      key,
		Size:     int64(len(data)),
		Duration: time.Since(start),
		URL:      store.URL(key),
	}
	log.Info().Str("key", key).Int64("bytes", result.Size).Dur("took", result.Duration).Msg("⬆️  Upload completed")

	if cfg.Events.Enabled() {
		if err := publishUpload(cmd, cfg.Events, result); err != nil {
			return err
		}
		result.Published = true
	}

	switch outputFormat {
	case "json":
		return printJSON(cmd.OutOrStdout(), result)
	case "yaml":
		return printYAML(cmd.OutOrStdout(), result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✅ Uploaded %s to %s/%s (%d bytes in %.2f seconds)\n",
		file, result.Bucket, result.Key, result.Size, result.Duration.Seconds())
	fmt.Fprintf(w, "Blob URL: %s\n", result.URL)
	return nil
}

func publishUpload(cmd *cobra.Command, cfg config.EventsConfig, result UploadResult) error {
	pub := events.NewPublisher(cfg.Brokers, cfg.Topic)
	defer pub.Close()

	err := pub.Publish(cmd.Context(), events.BlobEvent{
		Bucket: result.Bucket,
		Key:    result.Key,
		Size:   result.Size,
		URL:    result.URL,
	})
	if err != nil {
		return err
	}
	log.Info().Str("topic", cfg.Topic).Str("key", result.Key).Msg("📣 Upload event published")
	return nil
}
