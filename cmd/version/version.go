package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/xray-worker/internal/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"

	outputJSON bool
)

// Versions holds build information of the worker.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
	WorkerName    string `json:"worker_name"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), currentVersions(), outputJSON)
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print version information as JSON.")
	return cmd
}

func currentVersions() Versions {
	workerName := config.DefaultWorkerName
	if AppConfig != nil && AppConfig.Worker.Name != "" {
		workerName = AppConfig.Worker.Name
	}
	return Versions{
		Version:       CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
		WorkerName:    workerName,
	}
}

// printVersionInfo prints the version information as text or JSON.
func printVersionInfo(w io.Writer, v Versions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintf(w, "Worker: %s\n", v.WorkerName)
	fmt.Fprintf(w, "Core Version: v%s\n", v.Version)
	fmt.Fprintf(w, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", v.BuildTime)
	return nil
}
