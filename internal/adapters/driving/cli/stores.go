package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List TM stores and their unit counts",
	Args:  cobra.NoArgs,
	RunE:  runStores,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-store usage statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(storesCmd, statsCmd)
}

func runStores(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	names, err := tmStore.StoreNames(ctx)
	if err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}
	if len(names) == 0 {
		cmd.Println("No stores yet.")
		return nil
	}

	for _, name := range names {
		count, err := tmStore.Units(name).Count(ctx)
		if err != nil {
			return fmt.Errorf("counting store %q: %w", name, err)
		}
		cmd.Printf("%-24s %d units\n", name, count)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	names, err := tmStore.StoreNames(ctx)
	if err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}
	if len(names) == 0 {
		cmd.Println("No stores yet.")
		return nil
	}

	for _, name := range names {
		var units, used, accepts int64
		err := tmStore.Units(name).All(ctx, func(u domain.TranslationUnit) error {
			units++
			if u.UsageCount > 0 {
				used++
			}
			accepts += u.UsageCount
			return nil
		})
		if err != nil {
			return fmt.Errorf("reading store %q: %w", name, err)
		}
		cmd.Printf("%-24s %d units, %d used at least once, %d accepts total\n",
			name, units, used, accepts)
	}
	return nil
}
