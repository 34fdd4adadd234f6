// Package main is a small host shell around the editor core. It loads
// configuration, stands up the coordinator, opens a document, and prints
// the serialized tree and state summary after replaying requested edits.
// Real hosts embed the core and drive it over the message bus instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dtowne/xylem/internal/app"
	"github.com/dtowne/xylem/internal/config"
	"github.com/dtowne/xylem/internal/dom"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		docName     string
		rootTag     string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&docName, "name", "untitled.xml", "Name of the document to open")
	flag.StringVar(&rootTag, "root", "document", "Root element tag for the new document")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("xylem %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{
		Extensions:        cfg.Session.Extensions,
		Locale:            cfg.Session.Locale,
		MaxHistoryEntries: cfg.History.MaxEntries,
		LogLevel:          cfg.Logging.Level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := application.OpenDocument(dom.NewDocument(docName, rootTag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open document: %v\n", err)
		return 1
	}

	state := application.State()
	fmt.Printf("document: %s\n", state.ActiveDocument)
	fmt.Printf("history:  %d entries, cursor %d\n", len(state.History), state.HistoryPosition)

	doc := application.Documents().Active()
	serialized, err := doc.Tree.Serialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to serialize document: %v\n", err)
		return 1
	}
	fmt.Println(serialized)

	return 0
}
