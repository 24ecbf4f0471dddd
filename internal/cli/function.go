package cli

import (
	"fmt"

	"go-diet-pipeline/internal/config"
	"go-diet-pipeline/internal/function"
	"go-diet-pipeline/internal/results"

	"github.com/spf13/cobra"
)

var functionCmd = &cobra.Command{
	Use:   "function [key]",
	Short: "Run the serverless aggregation job on a stored dataset",
	Long: `Function downloads the dataset from the object store, aggregates it and
persists the JSON summary to the results file and, when configured, to Redis
and back into the object store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFunction,
}

func runFunction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key := cfg.Storage.InputKey
	if len(args) == 1 {
		key = args[0]
	}

	handler, cleanup, err := newFunctionHandler(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := handler.Invoke(ctx, key)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		return printJSON(cmd.OutOrStdout(), result.Summary)
	case "yaml":
		return printYAML(cmd.OutOrStdout(), result.Summary)
	}
	w := cmd.OutOrStdout()
	s := result.Summary
	fmt.Fprintf(w, "✅ %s\n", result.Message)
	fmt.Fprintf(w, "Source: %s\n", s.DataSource)
	fmt.Fprintf(w, "Recipes: %d, diet types: %d\n", s.TotalRecipes, s.TotalDietTypes)
	fmt.Fprintf(w, "Download: %.3f seconds, %d bytes\n",
		s.ProcessingMetadata.DownloadTimeSeconds, s.ProcessingMetadata.BlobSizeBytes)
	return nil
}

// newFunctionHandler wires the job to the configured store and sinks
func newFunctionHandler(cmd *cobra.Command, cfg *config.Config) (*function.Handler, func(), error) {
	store, err := newBlobStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}

	var sinks []results.Sink
	cleanup := func() {}
	if cfg.Results.File != "" {
		sinks = append(sinks, &results.FileSink{Path: cfg.Results.File})
	}
	if cfg.Results.RedisAddr != "" {
		rs := results.NewRedisSink(cfg.Results.RedisAddr, cfg.Results.RedisTTL)
		sinks = append(sinks, rs)
		cleanup = func() { _ = rs.Close() }
	}
	if cfg.Results.ToBlob {
		sinks = append(sinks, &results.BlobSink{Store: store})
	}

	return &function.Handler{
		Blobs:      store,
		Sinks:      sinks,
		SummaryKey: cfg.Storage.SummaryKey,
	}, cleanup, nil
}
