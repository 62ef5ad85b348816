// Package main is the entry point for the taskdeck application.
// This file contains the export subcommand handler.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"taskdeck/internal/config"
	"taskdeck/internal/export"
	"taskdeck/internal/storage"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `taskdeck export - Export all tasks to a file

USAGE:
    taskdeck export [OPTIONS]

OPTIONS:
    -f, --format FMT   Output format: csv (default) or xlsx
    -o, --output FILE  Write to a specific file
    -h, --help         Show this help message

DESCRIPTION:
    Exports every task to a CSV file or an Excel workbook. Columns match
    the import format, so an exported file can be imported back without
    edits. Without --output the file is written to the current directory
    as tasks-YYYY-MM-DD.csv (or .xlsx).

EXAMPLES:
    # Export to ./tasks-2026-08-30.csv
    taskdeck export

    # Export an Excel workbook
    taskdeck export --format xlsx

    # Export to a specific path (format from extension)
    taskdeck export --output ~/backups/tasks.xlsx
`

// runExport handles the "taskdeck export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	formatFlag := fs.String("format", "csv", "output format: csv or xlsx")
	fs.StringVar(formatFlag, "f", "csv", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to a specific file")
	fs.StringVar(outputFlag, "o", "", "write to a specific file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	// Validate format
	format := *formatFlag
	if format != "csv" && format != "xlsx" && format != "excel" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'csv' or 'xlsx'.\n", format)
		os.Exit(1)
	}
	if format == "excel" {
		format = "xlsx"
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", fs.Args())
		fs.Usage()
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

	tasks, err := store.LoadTasks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tasks: %v\n", err)
		os.Exit(1)
	}

	// Resolve the destination path. An explicit --output wins and picks
	// the format from its extension.
	path := *outputFlag
	if path == "" {
		if format == "xlsx" {
			path = export.ExcelFilename(store.Now())
		} else {
			path = export.CSVFilename(store.Now())
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := export.WriteFile(path, tasks); err != nil {
		if errors.Is(err, export.ErrNoTasks) {
			fmt.Println("No tasks to export.")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d tasks to %s\n", len(tasks), path)
}
