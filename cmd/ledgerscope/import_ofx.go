package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/cli"
	"github.com/haldane/ledgerscope/internal/model"
	"github.com/haldane/ledgerscope/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files exported
from a bank. Imported transactions belong to the acting user and become
the input set for analysis.

Examples:
  # Import a single file
  ledgerscope import-ofx ~/Downloads/operating_account_jan.qfx

  # Import everything in a directory
  ledgerscope import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "parse and summarize without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	actor, err := currentActor()
	if err != nil {
		return err
	}

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	fmt.Println(cli.FormatTitle("Importing OFX files"))

	bar := progressbar.NewOptions(len(allFiles),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Parsing files..."),
	)

	parser := ofx.NewParser()
	ctx := cmd.Context()

	// Duplicate FITIDs across files (overlapping statement exports) are
	// dropped here; the database additionally ignores ids it already has.
	seen := make(map[string]bool)
	var allTransactions []model.Transaction

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			_ = bar.Add(1)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f, actor)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			_ = bar.Add(1)
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.ID] {
				seen[tx.ID] = true
				allTransactions = append(allTransactions, tx)
				added++
			}
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"transactions_found", len(transactions),
			"added", added,
			"duplicates", len(transactions)-added)
		_ = bar.Add(1)
	}

	if len(allTransactions) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in any file"))
		return nil
	}

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf(
			"Dry run: would import %d transactions", len(allTransactions))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", len(allTransactions))))
	return nil
}
