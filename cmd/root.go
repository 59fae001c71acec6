package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/xray-worker/cmd/detect"
	"github.com/scan-io-git/xray-worker/cmd/invoke"
	"github.com/scan-io-git/xray-worker/cmd/serve"
	"github.com/scan-io-git/xray-worker/cmd/version"
	"github.com/scan-io-git/xray-worker/internal/config"
)

// ConfigEnv points to the configuration file when --config is not given.
const ConfigEnv = "WORKER_CONFIG"

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "xray-worker [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "xray-worker reports Xray findings for failed downloads to a webhook.",
		Long: `xray-worker handles AFTER_DOWNLOAD_ERROR events of the JFrog platform.
	For every failed download it asks Xray for the artifact summary and, when issues are
	reported, notifies the configured webhook. The download outcome is never changed.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $WORKER_CONFIG or config.yml)")
	rootCmd.AddCommand(
		version.NewVersionCmd(),
		invoke.InvokeCmd,
		serve.ServeCmd,
		detect.DetectCmd,
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = os.Getenv(ConfigEnv)
	}
	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	invoke.Init(AppConfig)
	serve.Init(AppConfig)
	detect.Init(AppConfig)
	version.Init(AppConfig)
}
