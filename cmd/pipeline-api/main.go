package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-diet-pipeline/internal/api"
	"go-diet-pipeline/internal/api/handler"
	"go-diet-pipeline/internal/blob"
	"go-diet-pipeline/internal/chart"
	"go-diet-pipeline/internal/config"
	"go-diet-pipeline/internal/pipeline"
	"go-diet-pipeline/internal/store"
	"go-diet-pipeline/pkg/router"
	"go-diet-pipeline/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	v := viper.New()
	if path := os.Getenv("DIET_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to read config file")
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer st.Close()

	blobs, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure object store")
	}

	outputs := utils.NewOutputManager(cfg.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}
	runner := &pipeline.Runner{
		Store:    st,
		Blobs:    blobs,
		Outputs:  outputs,
		Renderer: chart.NewPNGRenderer(),
	}

	// Create router and register API routes
	r := router.New()
	api.RegisterRoutes(r, handler.NewAnalysisHandler(st, runner, outputs))

	if err := r.Start(ctx, cfg.API.Addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
