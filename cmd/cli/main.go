package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goanova/adapters/ingest"
	"goanova/app"
	"goanova/internal/config"
	"goanova/internal/testkit"
	"goanova/ports"
)

func main() {
	// Optional .env; environment wins when both are set
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goanova",
		Short: "Two-factor ANOVA with replication for randomized complete block designs",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var alpha float64
	var confidence float64

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run the full analysis on a long-format CSV or Excel file",
		Long: `Run the RCBD pipeline on a long-format file with block, treatment and
value columns, and print the result as JSON for an external renderer.

Example: goanova analyze yields.csv --alpha 0.05 --confidence 0.95`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if cmd.Flags().Changed("confidence") {
				cfg.Analysis.ConfidenceLevel = confidence
			}

			filePath := cfg.Data.FilePath
			if len(args) > 0 {
				filePath = args[0]
			}
			if filePath == "" {
				return fmt.Errorf("no data file given (argument or DATA_FILE)")
			}

			var reader ports.DatasetReader = ingest.NewDataReader(filePath)
			observations, err := reader.ReadObservations(cmd.Context())
			if err != nil {
				return err
			}

			service := app.NewAnalysisService()
			result, err := service.RunAnalysis(cmd.Context(), app.AnalysisRequest{
				Observations: observations,
				Config:       cfg.Analysis,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance threshold")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "confidence level for effect-size intervals")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var blocks, treatments, replications int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit a synthetic balanced dataset as CSV on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.NewGenerator(seed)
			observations := gen.Balanced(testkit.Spec{
				Blocks:          blocks,
				Treatments:      treatments,
				Replications:    replications,
				GrandMean:       50,
				BlockEffect:     2,
				TreatmentEffect: 5,
				NoiseSD:         1.5,
			})

			w := csv.NewWriter(os.Stdout)
			if err := w.Write([]string{"block", "treatment", "value"}); err != nil {
				return err
			}
			for _, obs := range observations {
				record := []string{
					obs.Block.String(),
					obs.Treatment.String(),
					fmt.Sprintf("%.6f", obs.Value),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().IntVarP(&blocks, "blocks", "b", 4, "number of blocks")
	cmd.Flags().IntVarP(&treatments, "treatments", "t", 3, "number of treatments")
	cmd.Flags().IntVarP(&replications, "replications", "r", 2, "replications per cell")
	cmd.Flags().Int64Var(&seed, "seed", 12345, "random seed")
	return cmd
}
