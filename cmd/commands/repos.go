package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reposcout/internal/config"
	"reposcout/internal/domain"
	"reposcout/internal/github"
)

// NewReposCommand creates the per-user listing command.
func NewReposCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repos <username>",
		Short: "List the repositories of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepos(args[0])
		},
	}
}

func runRepos(username string) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := github.NewClient(cfg.APIBaseURL)
	repos, err := client.UserRepositories(ctx, username)
	if err != nil {
		if domain.IsConnectivityError(err) {
			return fmt.Errorf("no connection: %w", err)
		}
		return err
	}

	printRepos(repos)
	return nil
}
