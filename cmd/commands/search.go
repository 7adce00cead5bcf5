package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reposcout/internal/cache"
	"reposcout/internal/config"
	"reposcout/internal/domain"
	"reposcout/internal/github"
)

// NewSearchCommand creates the one-shot search command. Results are printed
// and stored in the local cache, so the TUI starts with them next time.
func NewSearchCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a single repository search and print the results",
		Long: `Runs one search against the remote index, prints the results, and
replaces the local cache contents with them.

Examples:
  reposcout search android
  reposcout search "terminal ui" --no-cache`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not write results to the local cache")
	return cmd
}

func runSearch(query string, noCache bool) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := github.NewClient(cfg.APIBaseURL)
	repos, err := client.SearchRepositories(ctx, query)
	if err != nil {
		if domain.IsConnectivityError(err) {
			return fmt.Errorf("no connection: %w", err)
		}
		return err
	}

	if !noCache {
		store, err := cache.NewStore(cfg.DBPath, nil)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()
		if err := store.ReplaceAll(ctx, repos); err != nil {
			return fmt.Errorf("caching results: %w", err)
		}
	}

	printRepos(repos)
	return nil
}

func printRepos(repos []domain.Repo) {
	if len(repos) == 0 {
		fmt.Println("No results.")
		return
	}
	for _, r := range repos {
		fmt.Printf("%-40s @%-20s %s\n", r.Name, r.OwnerLogin, r.URL)
	}
	fmt.Printf("\n%d results\n", len(repos))
}
