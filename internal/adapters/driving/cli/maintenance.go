package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaim space and merge the full-text index",
	Args:  cobra.NoArgs,
	RunE:  runCompact,
}

var (
	validateRepair bool

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check that every unit has a full-text index entry",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
)

func init() {
	validateCmd.Flags().BoolVar(&validateRepair, "repair", false, "rebuild the index if the check fails")
	rootCmd.AddCommand(compactCmd, validateCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	if err := tmStore.Compact(context.Background()); err != nil {
		return fmt.Errorf("compaction failed: %w", err)
	}
	cmd.Println("Compacted.")
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	report, err := tmStore.Validate(context.Background(), validateRepair)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cmd.Printf("%d units, %d index entries\n", report.Units, report.Indexed)
	switch {
	case report.Healthy && report.Repaired:
		cmd.Println("Index rebuilt; store is consistent.")
	case report.Healthy:
		cmd.Println("Store is consistent.")
	case report.Repaired:
		return errors.New("index rebuilt but store is still inconsistent")
	default:
		return errors.New("store is inconsistent; run with --repair to rebuild the index")
	}
	return nil
}
