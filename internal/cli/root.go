package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-diet-pipeline/internal/blob"
	"go-diet-pipeline/internal/config"
	"go-diet-pipeline/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	cfgFile      string
	logLevel     string
	outputFormat string
	quiet        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "diet-pipeline",
	Short: "Diet dataset analysis pipeline",
	Long: `diet-pipeline loads a recipe dataset with diet types and macronutrients,
aggregates it per diet type and exports the enriched table, a report and charts.

It can also stage the dataset in an object store and run the aggregation as a
serverless-style job that persists a JSON summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute runs the root command. Errors are printed here so every command
// reports them the same way.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, pipeline.Describe(err))
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./diet-pipeline.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(analyzeCmd, uploadCmd, functionCmd, listenCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("diet-pipeline")
	}

	if err := viper.ReadInConfig(); err == nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// initLogging configures the global logger
func initLogging() {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	// logs go to stderr, stdout carries the report
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// newBlobStore builds the configured object store
func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	return blob.Open(ctx, cfg.Storage)
}
