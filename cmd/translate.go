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
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/radtran/internal/config"
	"github.com/valpere/radtran/internal/glossary"
	"github.com/valpere/radtran/internal/oracle"
	"github.com/valpere/radtran/internal/orchestrator"
	"github.com/valpere/radtran/internal/sheet"
	"github.com/valpere/radtran/internal/validator"
	"github.com/valpere/radtran/internal/window"
)

var (
	sheetName   string
	limit       int
	startRow    int
	force       bool
	dryRun      bool
	seedContext bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate untranslated rows of the configured sheet",
	Long: `Walk the sheet top to bottom and fill the target column of every row
that does not have a translation yet.

Rows that already carry a target value are skipped unless --force is set.
Use --dry-run to see what would be written without touching the sheet, and
--seed-context to warm the rolling context from rows translated in earlier
runs before the first new row is attempted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := sheet.NewClient(ctx, cfg.Google.Credentials, cfg.Google.SpreadsheetID, sheet.Columns{
			Speaker:         cfg.Google.SpeakerCol,
			SourcePrimary:   cfg.Google.SourceCol,
			SourceSecondary: cfg.Google.GlossCol,
			Target:          cfg.Google.TargetCol,
			HeaderRows:      cfg.Google.HeaderRows,
		})
		if err != nil {
			return err
		}

		tab := sheetName
		if tab == "" {
			tab = cfg.Google.Sheet
		}
		if tab == "" {
			tab, err = pickSheet(ctx, store)
			if err != nil {
				return err
			}
		}

		svc, err := oracle.New(cfg.Oracle.Config)
		if err != nil {
			return err
		}

		basePrompt, err := readOptionalFile(cfg.Oracle.BasePromptPath)
		if err != nil {
			return err
		}
		synopsis, err := readOptionalFile(cfg.Oracle.SynopsisPath)
		if err != nil {
			return err
		}

		runID := uuid.New().String()
		slog.Info("starting run",
			"run_id", runID,
			"sheet", tab,
			"oracle", svc.Name(),
			"model", cfg.Oracle.Model,
			"target", cfg.Translation.TargetLang,
			"dry_run", dryRun || cfg.Run.DryRun,
		)

		orch := orchestrator.New(
			store,
			svc,
			window.New(cfg.Translation.ContextWindow),
			glossary.New(cfg.Translation.MaxGlossaryTerms),
			orchestrator.Config{
				SheetName:   tab,
				TargetLang:  cfg.Translation.TargetLang,
				TargetCode:  cfg.Translation.TargetCode,
				Limit:       pickLimit(limit, cfg.Run.Limit),
				StartRow:    startRow,
				Force:       force,
				DryRun:      dryRun || cfg.Run.DryRun,
				SeedContext: seedContext,
				MaxAttempts: cfg.Run.MaxAttempts,
				RetryDelay:  cfg.Run.RetryDelay,
				BasePrompt:  basePrompt,
				Synopsis:    synopsis,
			},
		)
		if cfg.Translation.TargetCode != "" {
			orch.SetLanguageChecker(validator.New())
		}

		summary, runErr := orch.Run(ctx)
		if summary != nil {
			printSummary(summary, runID)
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet tab to process (interactive pick if omitted)")
	translateCmd.Flags().IntVar(&limit, "limit", 0, "Max rows to translate this run (0 = no limit)")
	translateCmd.Flags().IntVar(&startRow, "start-row", 0, "First sheet row to consider (1-based)")
	translateCmd.Flags().BoolVar(&force, "force", false, "Re-translate rows that already have a target value")
	translateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute translations but write nothing back")
	translateCmd.Flags().BoolVar(&seedContext, "seed-context", false, "Warm context window and glossary from already-translated rows")
}

// pickLimit resolves the row limit: flag wins, then config, 0 means all.
func pickLimit(flagLimit, cfgLimit int) int {
	if flagLimit > 0 {
		return flagLimit
	}
	return cfgLimit
}

// pickSheet lists the available tabs and asks the user to choose one.
func pickSheet(ctx context.Context, store sheet.RowStore) (string, error) {
	titles, err := store.ListSheets(ctx)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("spreadsheet has no worksheets")
	}
	if len(titles) == 1 {
		return titles[0], nil
	}

	fmt.Println("Available sheets:")
	for i, title := range titles {
		fmt.Printf("  %d. %s\n", i+1, title)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Pick a sheet by number: ")
		if !scanner.Scan() {
			return "", fmt.Errorf("no sheet selected: %w", scanner.Err())
		}
		sel, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && sel >= 1 && sel <= len(titles) {
			return titles[sel-1], nil
		}
		fmt.Println("Invalid selection.")
	}
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printSummary(s *orchestrator.Summary, runID string) {
	for _, res := range s.Results {
		if res.Outcome == orchestrator.OutcomeFailed {
			fmt.Fprintf(os.Stderr, "row %d: %v\n", res.Row, res.Err)
		}
	}
	fmt.Printf("Done. Sheet %q: %d written, %d skipped, %d failed (run %s)\n",
		s.Sheet, s.Written, s.Skipped, s.Failed, runID)
}
