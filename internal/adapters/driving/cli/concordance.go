package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoria-cli/internal/core/services"
)

var (
	concordanceStores []string
	concordanceLimit  int
	concordanceJSON   bool
)

var concordanceCmd = &cobra.Command{
	Use:   "concordance [term]",
	Short: "Find units containing a term",
	Long: `Retrieves units whose source or target text contains the term as a
substring, independent of similarity ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runConcordance,
}

func init() {
	concordanceCmd.Flags().StringSliceVar(&concordanceStores, "stores", nil, "restrict to these stores, in order")
	concordanceCmd.Flags().IntVarP(&concordanceLimit, "limit", "n", 25, "maximum number of results")
	concordanceCmd.Flags().BoolVar(&concordanceJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(concordanceCmd)
}

func runConcordance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stores, err := federationStores(ctx)
	if err != nil {
		return fmt.Errorf("resolving stores: %w", err)
	}

	searcher := services.NewSearchService(stores)
	report, err := searcher.Concordance(ctx, args[0], concordanceStores, concordanceLimit)
	if err != nil {
		return fmt.Errorf("concordance failed: %w", err)
	}

	if concordanceJSON {
		return outputReportJSON(cmd, report)
	}

	if len(report.Matches) == 0 {
		cmd.Println("No matches found.")
	} else {
		for _, m := range report.Matches {
			cmd.Printf("%s/%d\t%s\t%s\n", m.StoreID, m.UnitID, m.SourceText, m.TargetText)
		}
	}
	for _, f := range report.Failed {
		cmd.Printf("warning: store %q unavailable: %v\n", f.StoreID, f.Err)
	}
	return nil
}
