package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/anonto42/snapfeed/backend/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	port     string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snapfeed",
	Short: "Snapfeed - image feed backend",
	Long: `Snapfeed serves the image feed API: posts, likes, comments, follows and
account profiles backed by PostgreSQL, with Firebase for identity and media.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, *logrus.Logger) {
	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, config.NewLogger(cfg)
}
