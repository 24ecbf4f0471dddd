package cli

import (
	"context"
	"errors"

	"go-diet-pipeline/internal/events"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run the aggregation job whenever a dataset is uploaded",
	Long: `Listen consumes upload events from Kafka and invokes the serverless
aggregation job for every uploaded blob until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Events.Enabled() {
		return errors.New("events.brokers must be configured to listen for uploads")
	}

	handler, cleanup, err := newFunctionHandler(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	listener := events.NewListener(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.GroupID,
		func(ctx context.Context, ev events.BlobEvent) error {
			result, err := handler.Invoke(ctx, ev.Key)
			if err != nil {
				return err
			}
			log.Info().Str("key", ev.Key).Int("recipes", result.Summary.TotalRecipes).Msg(result.Message)
			return nil
		})
	defer listener.Close()

	log.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("👂 Waiting for uploads")
	return listener.Start(cmd.Context())
}
