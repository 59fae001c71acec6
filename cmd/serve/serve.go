package serve

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/xray-worker/internal/config"
	"github.com/scan-io-git/xray-worker/internal/logger"
	"github.com/scan-io-git/xray-worker/internal/worker"
)

// RunOptionsServe holds the arguments for the serve command.
type RunOptionsServe struct {
	Addr string
}

var (
	AppConfig         *config.Config
	serveOptions      RunOptionsServe
	exampleServeUsage = `  # Serving on the address from the configuration file
  xray-worker serve

  # Serving on a specific address
  xray-worker serve --addr 127.0.0.1:9090`
)

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:                   "serve [--addr HOST:PORT]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleServeUsage,
	Args:                  cobra.NoArgs,
	Short:                 "Exposes the worker as an HTTP endpoint for the hosting platform",
	RunE:                  runServeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runServeCommand executes the serve command until the context is cancelled.
func runServeCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-serve")

	handler, err := worker.NewFromConfig(AppConfig, logger.Named("worker"))
	if err != nil {
		logger.Error("failed to initialize worker", "error", err)
		return err
	}

	serverConfig := AppConfig.Server
	serverConfig.Addr = config.SetThen(serveOptions.Addr, serverConfig.Addr)
	server := worker.NewServer(&serverConfig, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("worker endpoint failed", "error", err)
		}
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down worker endpoint")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func init() {
	ServeCmd.Flags().StringVar(&serveOptions.Addr, "addr", "", "Address to listen on, overrides server.addr from the configuration.")
	ServeCmd.Flags().BoolP("help", "h", false, "Show help for the serve command.")
}
