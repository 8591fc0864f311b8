// Package cli implements the cobra command tree of the memoria CLI.
// Commands are thin adapters: they wire the SQLite store and the core
// services together and format results for the terminal.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/memoria-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memoria-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/logger"
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string

	cfg     driven.ConfigStore
	tmStore *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "memoria",
	Short: "Translation memory engine",
	Long: `memoria stores source/target sentence pairs in named TM stores and
retrieves them by exact hash lookup, similarity-ranked fuzzy search and
concordance search, federated across all configured stores.`,
	SilenceUsage:      true,
	PersistentPreRunE: initStores,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tmStore != nil {
			return tmStore.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.memoria)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.memoria/data)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// initStores opens configuration and the TM database before any
// command runs.
func initStores(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(flagVerbose)

	// version needs neither config nor database
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.GetString("data_dir")
	}

	tmStore, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening TM database: %w", err)
	}

	return nil
}

// federationStores returns handles for all configured stores in
// federation order: the config's "stores" list if set, otherwise every
// store present in the database, alphabetically.
func federationStores(ctx context.Context) ([]driven.UnitStore, error) {
	names := cfg.GetStringSlice("stores")
	if len(names) == 0 {
		var err error
		names, err = tmStore.StoreNames(ctx)
		if err != nil {
			return nil, err
		}
	}

	stores := make([]driven.UnitStore, len(names))
	for i, name := range names {
		stores[i] = tmStore.Units(name)
	}
	return stores, nil
}

// defaultThreshold reads the configured similarity threshold, falling
// back to the engine default.
func defaultThreshold() float64 {
	if v := cfg.GetFloat("default_threshold"); v > 0 {
		return v
	}
	return domain.DefaultThreshold
}

// defaultMaxResults reads the configured result cap, falling back to
// the engine default.
func defaultMaxResults() int {
	if v := cfg.GetInt("max_results"); v > 0 {
		return v
	}
	return domain.DefaultMaxResults
}
