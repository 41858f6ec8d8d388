/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/opustran/internal/facade"
	"github.com/valpere/opustran/internal/language"
	"github.com/valpere/opustran/internal/store"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Resolve model identifiers and inspect the model catalog",
	Long: `Resolve the Opus-MT model for a language pair, and list, inspect, and
clear the SQLite catalog of model loads and usage.`,
}

var modelsResolveCmd = &cobra.Command{
	Use:   "resolve <from> <to>",
	Short: "Print the model identifier for a language pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := language.Default()
		src, err := lookupCode(registry, args[0])
		if err != nil {
			return err
		}
		tgt, err := lookupCode(registry, args[1])
		if err != nil {
			return err
		}

		f := facade.New(registry, nil, facade.WithNamespace(cfg.Runtime.Namespace))
		fmt.Fprintln(cmd.OutOrStdout(), f.ResolveModelID(src, tgt))
		return nil
	},
}

// lookupCode accepts a display name or a registered code.
func lookupCode(registry *language.Registry, s string) (string, error) {
	if code, err := registry.CodeFor(s); err == nil {
		return code, nil
	}
	if _, err := registry.NameFor(s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", language.ErrUnknownLanguage, s)
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued models, most used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListModels(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No models in the catalog.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tLOADS\tFAILURES\tUSED\tLAST LOADED\tLAST USED\tLAST ERROR")
		for _, e := range entries {
			lastErr := truncate(e.LastError, 40)
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
				e.ModelID, e.LoadCount, e.FailureCount, e.UseCount,
				formatTime(e.LastLoaded), formatTime(e.LastUsed), lastErr)
		}
		return w.Flush()
	},
}

var modelsLoadsCmd = &cobra.Command{
	Use:   "loads <model-id>",
	Short: "Show the load history of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		loads, err := db.ListLoads(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list loads: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(loads) == 0 {
			fmt.Fprintf(out, "No loads recorded for %s.\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tLATENCY\tWHEN\tERROR")
		for _, l := range loads {
			fmt.Fprintf(w, "%s\t%s\t%dms\t%s\t%s\n",
				l.ID, l.Status, l.LatencyMs, l.CreatedAt.Format("2006-01-02 15:04"), l.Error)
		}
		return w.Flush()
	},
}

var modelsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Models:        %d\n", stats.Models)
		fmt.Fprintf(out, "Loads:         %d\n", stats.Loads)
		fmt.Fprintf(out, "Failed loads:  %d\n", stats.FailedLoads)
		fmt.Fprintf(out, "Translations:  %d\n", stats.Translations)
		fmt.Fprintf(out, "Avg load time: %.0fms\n", stats.AvgLoadMs)
		return nil
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <model-id>",
	Short: "Delete a model and its load history from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteModel(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete model: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted model: %s\n", args[0])
		return nil
	},
}

var modelsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every model from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d models from the catalog.\n", n)
		return nil
	},
}

var errCatalogDisabled = errors.New("model catalog is disabled (db.enabled is false or --no-db is set)")

// openCatalog opens the store for the models subcommands. It refuses when the
// catalog is disabled rather than creating an empty database.
func openCatalog() (*store.Store, error) {
	if cfg == nil || !cfg.DB.Enabled {
		return nil, errCatalogDisabled
	}
	return openStore()
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.AddCommand(modelsResolveCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsLoadsCmd)
	modelsCmd.AddCommand(modelsStatsCmd)
	modelsCmd.AddCommand(modelsDeleteCmd)
	modelsCmd.AddCommand(modelsClearCmd)
}
