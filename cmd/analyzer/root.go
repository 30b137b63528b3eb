package main

import (
	"encoding/json"
	"fmt"
	"os"

	"ctr-insight-service/internal/analysis/core/domain"
	analysisUsecase "ctr-insight-service/internal/analysis/core/usecase"
	"ctr-insight-service/internal/impressions/adapters/csvfile"
	impressionsUsecase "ctr-insight-service/internal/impressions/core/usecase"
	"ctr-insight-service/internal/insights"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Run the CTR analysis pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnalyzeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file          string
		groupBy       string
		topN          int
		minReliable   int64
		iqrMultiplier float64
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a CSV of impression rows and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := csvfile.ReadRows(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			uc := analysisUsecase.NewRunAnalysisUseCase(impressionsUsecase.NewCleanRowsUseCase())
			result, err := uc.Execute(cmd.Context(), analysisUsecase.RunAnalysisInput{
				Rows: rows,
				Config: domain.RunConfig{
					GroupBy:                groupBy,
					MinReliableImpressions: minReliable,
					TopN:                   topN,
					IQRMultiplier:          iqrMultiplier,
				},
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			text, err := insights.NewFallbackGenerator().Generate(cmd.Context(), result)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file with impression rows (required)")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "group by attribute (default: the group key column)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "top-N size for concentration ranking")
	cmd.Flags().Int64Var(&minReliable, "min-reliable", 0, "minimum impressions for a reliable group")
	cmd.Flags().Float64Var(&iqrMultiplier, "iqr-multiplier", 0, "IQR fence multiplier")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
