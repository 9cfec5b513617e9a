package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/ichiwatch/config"
	"github.com/rustyeddy/ichiwatch/ledger"
	"github.com/rustyeddy/ichiwatch/notify"
	"github.com/rustyeddy/ichiwatch/stooq"
	"github.com/rustyeddy/ichiwatch/watch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one watch cycle: fetch, evaluate, notify, publish",
	Long: `Fetch the configured ticker's daily history, compute the Ichimoku
Cloud, evaluate the signal, send notifications for newly fired signals,
and publish the dashboard snapshot.

Example:
  ichiwatch run -f ichiwatch.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDryRun     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "log notifications instead of sending, keep ledger in memory")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	led, err := openLedger(cfg, runDryRun)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	runner := &watch.Runner{
		Ticker:       cfg.Ticker,
		Feed:         stooq.NewClient(cfg.Feed.BaseURL),
		Ledger:       led,
		Notifier:     buildNotifier(cfg, runDryRun, log),
		SnapshotPath: cfg.Snapshot.Path,
		Log:          log,
	}

	if err := runner.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("run failed")
		return err
	}
	return nil
}

func openLedger(cfg *config.Config, dryRun bool) (ledger.Ledger, error) {
	if dryRun {
		return ledger.NewMemory(), nil
	}
	switch cfg.Ledger.Type {
	case "sqlite":
		return ledger.NewSQLite(cfg.Ledger.DBPath)
	case "redis":
		return ledger.NewRedis(cfg.Ledger.RedisAddr, cfg.Ledger.RedisPassword, cfg.Ledger.RedisKey)
	default:
		return ledger.NewFile(cfg.Ledger.Path)
	}
}

func buildNotifier(cfg *config.Config, dryRun bool, log zerolog.Logger) notify.Notifier {
	if dryRun {
		return &notify.LogNotifier{Log: log}
	}

	var notifiers notify.Multi
	if len(cfg.Recipients) > 0 {
		notifiers = append(notifiers, notify.NewSMTPNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.From, cfg.Recipients, log,
		))
	}
	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.Webhook.URL))
	}
	if len(notifiers) == 0 {
		return &notify.LogNotifier{Log: log}
	}
	return notifiers
}
