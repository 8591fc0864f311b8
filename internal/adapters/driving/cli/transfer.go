package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/core/services"
	"github.com/custodia-labs/memoria-cli/internal/interchange/tmx"
)

var (
	importStore string
	exportStore string
	exportLang  string
)

var importCmd = &cobra.Command{
	Use:   "import [file.tmx]",
	Short: "Import a TMX file into a store",
	Long: `Parses a TMX document and bulk-inserts its translation units.
Units whose source text already exists in the store overwrite the stored
target (last-write-wins), so re-importing a file is idempotent.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file.tmx]",
	Short: "Export a store to a TMX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().StringVar(&importStore, "store", "project", "TM store to import into")
	exportCmd.Flags().StringVar(&exportStore, "store", "project", "TM store to export")
	exportCmd.Flags().StringVar(&exportLang, "source-lang", "", "header source language tag")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	entries, err := tmx.Read(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	units := make([]domain.TranslationUnit, len(entries))
	for i, e := range entries {
		units[i] = domain.TranslationUnit{
			SourceText: e.SourceText,
			TargetText: e.TargetText,
			SourceLang: e.SourceLang,
			TargetLang: e.TargetLang,
		}
	}

	ctx := context.Background()
	transfer := services.NewTransferService([]driven.UnitStore{tmStore.Units(importStore)})
	written, err := transfer.Import(ctx, importStore, units)
	if err != nil {
		return fmt.Errorf("import failed after %d units: %w", written, err)
	}

	cmd.Printf("Imported %d units into store %q\n", written, importStore)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var entries []domain.TranslationUnit
	transfer := services.NewTransferService([]driven.UnitStore{tmStore.Units(exportStore)})
	err := transfer.Export(ctx, exportStore, func(unit domain.TranslationUnit) error {
		entries = append(entries, unit)
		return nil
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	srcLang := exportLang
	if srcLang == "" && len(entries) > 0 {
		srcLang = entries[0].SourceLang
	}

	tmxEntries := make([]tmx.Entry, len(entries))
	for i, unit := range entries {
		tmxEntries[i] = tmx.Entry{
			SourceLang: unit.SourceLang,
			TargetLang: unit.TargetLang,
			SourceText: unit.SourceText,
			TargetText: unit.TargetText,
		}
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}

	if err := tmx.Write(f, srcLang, tmxEntries); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", args[0], err)
	}

	cmd.Printf("Exported %d units from store %q\n", len(tmxEntries), exportStore)
	return nil
}
