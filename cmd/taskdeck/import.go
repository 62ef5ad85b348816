// Package main is the entry point for the taskdeck application.
// This file contains the import subcommand handler.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"taskdeck/internal/bulkimport"
	"taskdeck/internal/config"
	"taskdeck/internal/storage"
)

// importHelpText is the help message for the import subcommand.
const importHelpText = `taskdeck import - Import tasks from a spreadsheet

USAGE:
    taskdeck import <file>
    taskdeck import [OPTIONS] <file>

OPTIONS:
    --dry-run    Preview import without making changes
    -h, --help   Show this help message

DESCRIPTION:
    Imports tasks from a CSV or Excel (.xlsx) file. The format is detected
    from the file extension.

    Expected columns (header row required, any order):
      title, description, category, dueDate, status, completedAt

    RULES:
      - title is required, 3 to 100 characters
      - category must match an existing category title exactly
      - dueDate must be today or later; several date spellings are
        accepted (2026-01-31, 31/01/2026, 31-01-2026, with optional time)
      - status is "completed" or anything else for pending
      - any invalid row aborts the whole import; nothing is saved

EXAMPLES:
    # Import a CSV export
    taskdeck import tasks.csv

    # Import an Excel workbook
    taskdeck import backlog.xlsx

    # Preview before importing
    taskdeck import --dry-run tasks.csv

    # Show help
    taskdeck import --help
`

// runImport handles the "taskdeck import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	dryRunFlag := fs.Bool("dry-run", false, "preview import without making changes")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, importHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(importHelpText)
		os.Exit(0)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing file argument\n\n")
		fmt.Fprintf(os.Stderr, "Usage: taskdeck import <file>\n")
		fmt.Fprintf(os.Stderr, "\nRun 'taskdeck import --help' for more information.\n")
		os.Exit(1)
	}

	filePath := fs.Arg(0)

	kind := bulkimport.DetectKind(filePath)
	if kind == bulkimport.KindUnsupported {
		fmt.Fprintf(os.Stderr, "Error: %v\n", bulkimport.ErrUnsupportedFileType)
		os.Exit(1)
	}

	// Load config and storage
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	imp := bulkimport.NewImporter(store)

	if *dryRunFlag {
		runImportDryRun(imp, filePath, kind)
	} else {
		runImportActual(imp, filePath)
	}
}

// runImportDryRun previews the import without making changes.
func runImportDryRun(imp *bulkimport.Importer, path string, kind bulkimport.Kind) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	valid, rowErrs, err := imp.Preview(file, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing file: %v\n", err)
		os.Exit(1)
	}

	if len(rowErrs) > 0 {
		fmt.Fprintf(os.Stderr, "Import would be rejected (%d invalid rows):\n", len(rowErrs))
		for _, e := range rowErrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	fmt.Printf("Preview: %d tasks to import\n", len(valid))
	fmt.Println("────────────────────────────")

	// Show first 20 tasks
	showCount := len(valid)
	if showCount > 20 {
		showCount = 20
	}

	for i := 0; i < showCount; i++ {
		row := valid[i]
		fmt.Printf("  %s", strings.TrimSpace(row.Title))

		details := []string{strings.TrimSpace(row.Category), row.DueDateISO}
		if row.ParsedStatus == storage.StatusCompleted {
			details = append(details, "done")
		}
		fmt.Printf(" (%s)\n", strings.Join(details, ", "))
	}

	if len(valid) > 20 {
		fmt.Printf("  ... and %d more\n", len(valid)-20)
	}

	fmt.Println()
	fmt.Println("Run without --dry-run to import.")
}

// runImportActual performs the actual import.
func runImportActual(imp *bulkimport.Importer, path string) {
	result, err := imp.ImportFile(path)
	if err != nil {
		var verr *bulkimport.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "%s\n", verr)
			fmt.Fprintln(os.Stderr, "Nothing was imported.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import complete!\n")
	fmt.Printf("  Imported: %d tasks\n", result.Imported)
}
