package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/config"
	"github.com/bryanwahyu/contract-analyzer/internal/logger"
)

// set by -ldflags at build time
var version = "dev"

var (
	configPath string
	cfg        *config.Config
	log        *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contract-analyzer",
	Short: "Construction contract risk analyzer",
	Long: `contract-analyzer reviews construction contracts with a language model and
reports critical issues, warnings and informational findings.

Run "serve" for the web dashboard or "analyze" for a one-shot terminal report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("config load error: %w", err)
		}
		log, err = logger.New(cfg.Log.Level, cfg.Log.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.Version = version
	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
