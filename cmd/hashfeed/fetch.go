package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/gateway"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
)

var lastID string

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <platform>",
	Short: "Print one platform's feed as JSON",
	Long: `Fetch the configured hashtag from one platform and print the formatted
posts as a JSON array, exactly as the server would serve them.

On failure the error object is printed instead and the exit status is 1.`,
	Example: `  # Recent tweets for the configured hashtag
  hashfeed fetch twitter

  # Only Instagram media newer than a known id
  hashfeed fetch instagram --lid 1234567890_42`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&lastID, "lid", "", "id of the newest post already seen")
}

func runFetch(cmd *cobra.Command, args []string) error {
	platform, err := feed.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	service, err := gateway.FromConfig(cfg, transport.New(cfg.Transport, log), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	posts, err := service.Fetch(ctx, platform, lastID)
	if err != nil {
		if encErr := enc.Encode(map[string]errors.WireError{"error": errors.Wire(err)}); encErr != nil {
			return fmt.Errorf("failed to encode error: %w", encErr)
		}
		return err
	}

	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	return nil
}
