package cli

import (
	"fmt"

	"go-diet-pipeline/internal/chart"
	"go-diet-pipeline/internal/model"
	"go-diet-pipeline/internal/pipeline"
	"go-diet-pipeline/internal/store"
	"go-diet-pipeline/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	analyzeSourceType string
	analyzeTimeout    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dataset]",
	Short: "Analyze a diet dataset and export the results",
	Long: `Analyze loads the dataset (a local CSV, an http(s) URL or, with
--source blob, a key in the object store), fills missing macronutrients,
aggregates per diet type and writes the enriched CSV, the JSON report, the
workbook and the charts into a fresh directory under the output directory.`,
	Example: `  diet-pipeline analyze All_Diets.csv
  diet-pipeline analyze --source blob All_Diets.csv -o json
  diet-pipeline analyze --top-n 3 --no-charts data/diets.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSourceType, "source", model.SourceFile, "where the dataset comes from (csv, blob)")
	analyzeCmd.Flags().StringVar(&analyzeTimeout, "timeout", "5m", "maximum duration of the analysis")
	analyzeCmd.Flags().String("output-dir", "", "directory the run directory is created in")
	analyzeCmd.Flags().Int("top-n", 0, "number of top protein recipes per diet type")
	analyzeCmd.Flags().Bool("no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().Bool("no-workbook", false, "skip the xlsx workbook")

	_ = viper.BindPFlag("output_dir", analyzeCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("top_n", analyzeCmd.Flags().Lookup("top-n"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input := cfg.Input
	if analyzeSourceType == model.SourceBlob {
		input = cfg.Storage.InputKey
	}
	if len(args) == 1 {
		input = args[0]
	}

	noCharts, _ := cmd.Flags().GetBool("no-charts")
	noWorkbook, _ := cmd.Flags().GetBool("no-workbook")
	job := model.JobSpec{
		Source:          model.Source{Type: analyzeSourceType, URL: input},
		Transformations: pipeline.DefaultTransformations,
		TopN:            cfg.TopN,
		Export:          model.Export{Charts: cfg.Charts && !noCharts, Workbook: cfg.Workbook && !noWorkbook},
		JobTimeout:      analyzeTimeout,
	}

	outputs := utils.NewOutputManager(cfg.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	runner := &pipeline.Runner{
		Outputs:  outputs,
		Renderer: chart.NewPNGRenderer(),
	}

	if analyzeSourceType == model.SourceBlob {
		blobs, err := newBlobStore(ctx, cfg)
		if err != nil {
			return err
		}
		runner.Blobs = blobs
	}

	runID := uuid.New().String()
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open run database: %w", err)
		}
		defer st.Close()
		if err := st.SaveRun(runID, job); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		runner.Store = st
	}

	report, err := runner.Run(ctx, runID, job)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report, outputs.JobDir(runID))
}
