package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	internalcmd "github.com/scan-io-git/xray-worker/internal/cmd"
	"github.com/scan-io-git/xray-worker/internal/config"
	"github.com/scan-io-git/xray-worker/internal/xray"
)

// DetectResult is printed by the detect command.
type DetectResult struct {
	Source    string `json:"source"`
	HasIssues bool   `json:"has_issues"`
}

var (
	AppConfig          *config.Config
	exampleDetectUsage = `  # Checking a summary saved from the Xray API
  xray-worker detect /path/to/summary.json

  # Checking a summary fetched with curl
  curl -s -XPOST "$JF_URL/xray/api/v1/summary/artifact" -d '{"paths":["libs-release/a/b.jar"]}' | xray-worker detect -`
)

// DetectCmd represents the detect command.
var DetectCmd = &cobra.Command{
	Use:                   "detect {PATH | -}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleDetectUsage,
	Args:                  cobra.MaximumNArgs(1),
	Short:                 "Reports whether an Xray artifact summary contains issues",
	RunE:                  runDetectCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runDetectCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !internalcmd.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	source := "stdin"
	var r io.Reader = cmd.InOrStdin()
	if internalcmd.DetermineMode(args) == internalcmd.ModeEventFile {
		if err := config.ValidateConfigPath(args[0]); err != nil {
			return fmt.Errorf("invalid summary file: %w", err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		source, r = args[0], f
	}

	result, err := detect(source, r)
	if err != nil {
		return err
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
}

// detect runs the issue detector over a raw summary. An empty input is a summary without issues.
func detect(source string, r io.Reader) (DetectResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return DetectResult{}, err
	}

	var summary interface{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &summary); err != nil {
			return DetectResult{}, fmt.Errorf("failed to decode summary: %w", err)
		}
	}

	return DetectResult{Source: source, HasIssues: xray.HasIssues(summary)}, nil
}
