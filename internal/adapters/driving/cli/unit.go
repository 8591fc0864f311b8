package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/core/services"
)

var (
	addStore         string
	addSourceLang    string
	addTargetLang    string
	addContextBefore string
	addContextAfter  string
)

var addCmd = &cobra.Command{
	Use:   "add [source] [target]",
	Short: "Add a translation pair to a store",
	Long: `Writes one source/target pair into a TM store. A pair with the same
source text overwrites the previous target (last-write-wins).`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var acceptCmd = &cobra.Command{
	Use:   "accept [store] [id]",
	Short: "Record that a match was accepted",
	Long: `Bumps the usage counter of a unit. Usage statistics are best-effort:
a failed increment is logged, never fatal.`,
	Args: cobra.ExactArgs(2),
	RunE: runAccept,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [store] [id]",
	Short: "Delete one unit from a store",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

var (
	clearYes bool

	clearCmd = &cobra.Command{
		Use:   "clear [store]",
		Short: "Delete every unit in a store",
		Args:  cobra.ExactArgs(1),
		RunE:  runClear,
	}
)

func init() {
	addCmd.Flags().StringVar(&addStore, "store", "project", "TM store to write to")
	addCmd.Flags().StringVar(&addSourceLang, "source-lang", "", "source language tag")
	addCmd.Flags().StringVar(&addTargetLang, "target-lang", "", "target language tag")
	addCmd.Flags().StringVar(&addContextBefore, "context-before", "", "preceding segment text")
	addCmd.Flags().StringVar(&addContextAfter, "context-after", "", "following segment text")
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm the bulk delete")
	rootCmd.AddCommand(addCmd, acceptCmd, deleteCmd, clearCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	unit := domain.TranslationUnit{
		SourceText:    args[0],
		TargetText:    args[1],
		SourceLang:    addSourceLang,
		TargetLang:    addTargetLang,
		ContextBefore: addContextBefore,
		ContextAfter:  addContextAfter,
	}

	id, err := tmStore.Units(addStore).Insert(ctx, &unit)
	if err != nil {
		return fmt.Errorf("adding unit: %w", err)
	}

	cmd.Printf("Added unit %d to store %q\n", id, addStore)
	return nil
}

func runAccept(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unit id %q: %w", args[1], domain.ErrInvalidInput)
	}

	tracker := services.NewTrackerService([]driven.UnitStore{tmStore.Units(args[0])})
	tracker.MatchAccepted(ctx, args[0], id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unit id %q: %w", args[1], domain.ErrInvalidInput)
	}

	if err := tmStore.Units(args[0]).Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unit %d not found in store %q", id, args[0])
		}
		return fmt.Errorf("deleting unit: %w", err)
	}

	cmd.Printf("Deleted unit %d from store %q\n", id, args[0])
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errors.New("refusing to clear without --yes")
	}

	ctx := context.Background()
	deleted, err := tmStore.Units(args[0]).Clear(ctx)
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	cmd.Printf("Deleted %d units from store %q\n", deleted, args[0])
	return nil
}
