package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"reposcout/cmd/commands"
	"reposcout/internal/cache"
	"reposcout/internal/config"
	"reposcout/internal/connectivity"
	"reposcout/internal/eventbus"
	"reposcout/internal/github"
	"reposcout/internal/orchestrator"
	"reposcout/internal/ui"
)

// Version is set during build with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "reposcout",
	Short: "Search remote repositories from your terminal, with an offline cache",
	Long: `Reposcout searches a remote repository index as you type, keeps the
last result set in a local cache, and replays a search that failed
while offline as soon as connectivity returns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of reposcout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reposcout version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewSearchCommand())
	rootCmd.AddCommand(commands.NewReposCommand())
}

func runTUI() error {
	// Set up logging; the terminal belongs to the TUI.
	logFile, err := os.OpenFile("reposcout.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	store, err := cache.NewStore(cfg.DBPath, bus)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	client := github.NewClient(cfg.APIBaseURL)

	orch := orchestrator.New(client, store, bus, orchestrator.Options{
		Debounce: time.Duration(cfg.DebounceMs) * time.Millisecond,
	})
	if err := orch.Start(ctx); err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}
	defer orch.Close()

	monitor := connectivity.NewMonitor(bus, cfg.ProbeURL, time.Duration(cfg.ProbeIntervalSecs)*time.Second)
	monitor.Start(ctx)

	p := tea.NewProgram(ui.NewModel(orch), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
