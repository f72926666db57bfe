package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/config"
	"github.com/hamed0406/appsentry/internal/notify"
	"github.com/hamed0406/appsentry/internal/probe"
	"github.com/hamed0406/appsentry/internal/repo"
	"github.com/hamed0406/appsentry/internal/repo/memory"
	"github.com/hamed0406/appsentry/internal/repo/postgres"
	"github.com/hamed0406/appsentry/internal/scheduler"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Continuously check the health of all configured applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var snapshots repo.SnapshotStore
		var alertDB repo.AlertStore
		if cfg.DatabaseURL != "" {
			pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			snapshots, alertDB = pg, pg
		} else {
			mem := memory.New()
			snapshots, alertDB = mem, mem
		}

		client := probe.NewHTTPClient(cfg.Monitoring.ProbeTimeout.Std())
		runner := battery.NewRunner(
			logger,
			cfg.Monitoring.ProbeTimeout.Std(),
			cfg.LivenessScale(),
			cfg.Recommendations,
		)

		mon := scheduler.NewMonitor(
			logger,
			runner,
			healthSubjects(cfg, client),
			snapshots,
			cfg.Monitoring.Interval.Std(),
			cfg.Monitoring.Concurrency,
		)
		mon.StopImmediate = cfg.Monitoring.StopImmediate

		var channels notify.Multi
		if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
			channels = append(channels, s)
		}
		alerter := scheduler.NewAlerter(
			snapshots,
			alertDB,
			channels,
			cfg.LivenessScale(),
			scheduler.AlerterConfig{
				AlertOnRecovery: cfg.Monitoring.AlertOnRecovery,
				Cooldown:        cfg.Monitoring.AlertCooldown.Std(),
				PollInterval:    cfg.Monitoring.Interval.Std(),
			},
		)
		go func() { _ = alerter.Run(ctx) }()

		logger.Info("monitor_start",
			zap.Int("subjects", len(cfg.Applications)),
			zap.Duration("interval", cfg.Monitoring.Interval.Std()),
		)
		mon.Run(ctx)
		return nil
	},
}

// healthSubjects builds one health battery per configured application,
// with retry applied to the endpoint probes.
func healthSubjects(cfg config.Config, client *http.Client) scheduler.StaticSubjects {
	var subjects scheduler.StaticSubjects
	for name, app := range cfg.Applications {
		set := probe.HealthSet(client, app.ResolvedBaseURL(), app.HealthEndpoints)
		for i := range set {
			set[i] = probe.WithRetry(set[i],
				cfg.Monitoring.RetryAttempts,
				cfg.Monitoring.RetryBackoff.Std(),
			)
		}
		id := name
		if app.Environment != "" {
			id = name + ":" + app.Environment
		}
		subjects = append(subjects, scheduler.Subject{ID: id, Probes: set})
	}
	return subjects
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
