package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	internalcmd "github.com/scan-io-git/xray-worker/internal/cmd"
	"github.com/scan-io-git/xray-worker/internal/config"
	"github.com/scan-io-git/xray-worker/internal/logger"
	"github.com/scan-io-git/xray-worker/internal/worker"
)

// RunOptionsInvoke holds the arguments for the invoke command.
type RunOptionsInvoke struct {
	Pretty bool
}

var (
	AppConfig          *config.Config
	invokeOptions      RunOptionsInvoke
	exampleInvokeUsage = `  # Handling an event stored in a file
  xray-worker invoke /path/to/event.json

  # Handling an event piped from another tool
  cat event.json | xray-worker invoke -

  # Using a specific configuration file and printing an indented response
  xray-worker --config /etc/xray-worker/config.yml invoke --pretty /path/to/event.json`
)

// InvokeCmd represents the invoke command.
var InvokeCmd = &cobra.Command{
	Use:                   "invoke [--pretty] {PATH | -}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleInvokeUsage,
	Args:                  cobra.MaximumNArgs(1),
	Short:                 "Runs the worker once for an AFTER_DOWNLOAD_ERROR event",
	RunE:                  runInvokeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runInvokeCommand executes the invoke command.
func runInvokeCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !internalcmd.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLoggerWithOutput(AppConfig, "core-invoke", cmd.ErrOrStderr())

	req, err := readEvent(internalcmd.DetermineMode(args), args, cmd.InOrStdin())
	if err != nil {
		logger.Error("failed to read event", "error", err)
		return err
	}

	handler, err := worker.NewFromConfig(AppConfig, logger)
	if err != nil {
		logger.Error("failed to initialize worker", "error", err)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp := handler.Handle(ctx, req)
	return writeResponse(cmd.OutOrStdout(), resp, invokeOptions.Pretty)
}

// readEvent decodes an event from the file named in args or from stdin.
func readEvent(mode string, args []string, stdin io.Reader) (*worker.AfterDownloadErrorRequest, error) {
	var r io.Reader
	switch mode {
	case internalcmd.ModeEventFile:
		if err := config.ValidateConfigPath(args[0]); err != nil {
			return nil, fmt.Errorf("invalid event file: %w", err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	default:
		r = stdin
	}

	var req worker.AfterDownloadErrorRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &req, nil
}

func writeResponse(w io.Writer, resp worker.AfterDownloadErrorResponse, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

func init() {
	InvokeCmd.Flags().BoolVar(&invokeOptions.Pretty, "pretty", false, "Print the worker response as indented JSON.")
	InvokeCmd.Flags().BoolP("help", "h", false, "Show help for the invoke command.")
}
