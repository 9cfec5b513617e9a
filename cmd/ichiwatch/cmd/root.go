package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ichiwatch",
	Short: "An Ichimoku Cloud signal watcher for daily ETF prices",
	Long: `Ichiwatch tracks an ETF's daily price series, computes the Ichimoku
Cloud indicator, derives a BUY/SELL/NEUTRAL signal, and:

  - emails the signal to configured recipients (at most once per signal/day)
  - publishes a JSON snapshot for a dashboard to render

It is designed to run once per invocation from an external scheduler
such as cron.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger from a level string.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}
