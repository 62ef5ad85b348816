// Package main is the entry point for the taskdeck application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"
	"taskdeck/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `taskdeck - A keyboard-driven task manager for your terminal

USAGE:
    taskdeck [OPTIONS]
    taskdeck <command> [ARGS]

COMMANDS:
    import FILE       Import tasks from a CSV or Excel file
    import --dry-run  Preview an import without making changes
    export            Export all tasks to CSV
    export -f xlsx    Export all tasks to an Excel workbook

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    taskdeck is a terminal-based task manager with categories, a month
    calendar, filtering, search, and bulk import/export. All data lives
    in plain JSON files on your machine.

FEATURES:
    • Tasks      - Add, edit, complete, delete, reorder, search, filter
    • Categories - Color-coded labels with per-category task counts
    • Calendar   - Month view with due-date counts and filters
    • Local Data - Plain JSON files in ~/.taskdeck/

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        ?            Show help overlay
        q            Quit

    Tasks Pane:
        j/k, ↓/↑     Navigate
        a / e        Add / edit task
        d/Space      Toggle done
        x            Delete task
        /            Search
        s            Cycle due-date sort
        f            Cycle category filter
        c            Toggle completed view
        h/l          Previous / next page
        K/J          Move task up / down
        E            Export tasks to CSV

    Categories Pane:
        a / e        Add / edit category
        x            Delete category (if unused)

    Calendar Pane:
        h/l          Previous / next month
        t            Jump to current month
        f / c        Cycle category / status filter

DATA STORAGE:
    All data is stored in ~/.taskdeck/ as plain JSON files:
        todos.json       - Your tasks
        categories.json  - Categories

CONFIGURATION:
    Optional config file: ~/.config/taskdeck/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    taskdeck

    # Preview a spreadsheet import
    taskdeck import --dry-run tasks.xlsx

    # Import a CSV file
    taskdeck import tasks.csv

    # Export everything to Excel
    taskdeck export --format xlsx

    # Show version
    taskdeck --version

    # Show this help
    taskdeck --help

For more information, visit: https://github.com/yourusername/taskdeck
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "import":
			runImport(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("taskdeck version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/taskdeck/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize storage with configured data directory
	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Create styles from theme configuration
	styles := ui.NewStylesFromTheme(&cfg.Theme)

	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        true,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		PageSize:              cfg.UX.PageSize,
	}

	// Run the TUI
	if err := ui.Run(store, styles, appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
