package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hashfeed/internal/server"
	"hashfeed/pkg/gateway"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
)

var (
	// Serve command flags
	listenAddr string
	timeout    time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed gateway HTTP server",
	Long: `Run the HTTP server exposing one JSON feed per configured platform:

  GET /instagram?LID=<id>
  GET /facebook?LID=<id>
  GET /twitter?LID=<id>
  GET /feeds/{platform}?LID=<id>
  GET /healthz

LID is the id of the newest post the client already has. Only posts newer
than it are returned.`,
	Example: `  # Serve #golang on the default address
  hashfeed serve --hashtag '#golang'

  # Use a config file and a custom address
  hashfeed serve --config hashfeed.yaml --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().DurationVar(&timeout, "timeout", 0, "upstream request timeout (default 60s)")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{}
	if listenAddr != "" {
		flags["addr"] = listenAddr
	}
	if timeout > 0 {
		flags["timeout"] = timeout
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	tr := transport.New(cfg.Transport, log)

	service, err := gateway.FromConfig(cfg, tr, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, service, log).Run(ctx)
}
