package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/services"
)

var (
	searchStores    []string
	searchThreshold float64
	searchLimit     int
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [source text]",
	Short: "Search the translation memory",
	Long: `Looks the source text up across the configured TM stores.
An exact match returns immediately at 100%; otherwise candidates from the
full-text index are ranked by similarity and filtered by the threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchStores, "stores", nil, "restrict to these stores, in order")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "minimum similarity score (0..1)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stores, err := federationStores(ctx)
	if err != nil {
		return fmt.Errorf("resolving stores: %w", err)
	}

	threshold := searchThreshold
	if threshold <= 0 {
		threshold = defaultThreshold()
	}
	limit := searchLimit
	if limit <= 0 {
		limit = defaultMaxResults()
	}

	searcher := services.NewSearchService(stores)
	report, err := searcher.Search(ctx, args[0], domain.SearchOptions{
		StoreIDs:   searchStores,
		Threshold:  threshold,
		MaxResults: limit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputReportJSON(cmd, report)
	}
	return outputReportTable(cmd, report)
}

func outputReportJSON(cmd *cobra.Command, report *domain.SearchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportTable(cmd *cobra.Command, report *domain.SearchReport) error {
	if len(report.Matches) == 0 {
		cmd.Println("No matches found.")
	} else {
		cmd.Println("Matches:")
		cmd.Println()
		for i, m := range report.Matches {
			cmd.Printf("  [%d] %d%%  %s (unit %d)\n", i+1, m.MatchPct, m.StoreID, m.UnitID)
			cmd.Printf("      %s\n", m.SourceText)
			cmd.Printf("      %s\n", m.TargetText)
			cmd.Println()
		}
	}

	for _, f := range report.Failed {
		cmd.Printf("warning: store %q unavailable: %v\n", f.StoreID, f.Err)
	}
	return nil
}
