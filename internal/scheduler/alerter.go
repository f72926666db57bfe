package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/notify"
	"github.com/hamed0406/appsentry/internal/repo"
	"github.com/hamed0406/appsentry/internal/verdict"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Alerter watches the latest snapshot and notifies when a subject's
// verdict regresses from what was last recorded, with a cooldown to
// suppress noisy repeats. Recovery back to the best tier is announced
// when enabled, bypassing the cooldown.
type Alerter struct {
	snapshots repo.SnapshotStore
	alertDB   repo.AlertStore
	notifier  notify.Notifier
	scale     verdict.Scale
	cfg       AlerterConfig
}

func NewAlerter(
	snapshots repo.SnapshotStore,
	alertDB repo.AlertStore,
	notifier notify.Notifier,
	scale verdict.Scale,
	cfg AlerterConfig,
) *Alerter {
	return &Alerter{
		snapshots: snapshots,
		alertDB:   alertDB,
		notifier:  notifier,
		scale:     scale,
		cfg:       cfg,
	}
}

func (a *Alerter) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	// initial pass
	_ = a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = a.scanOnce(ctx)
		}
	}
}

func (a *Alerter) scanOnce(ctx context.Context) error {
	snap, err := a.snapshots.Latest(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	now := time.Now()

	for subject, b := range snap.Batches {
		rec, _ := a.alertDB.GetAlert(ctx, subject)

		// Has the verdict changed compared to what we last recorded?
		stateChanged := rec == nil || rec.LastVerdict != b.Verdict

		rank := a.scale.Rank(b.Verdict)
		prevRank := 0
		if rec != nil {
			prevRank = a.scale.Rank(rec.LastVerdict)
		}

		// Cooldown only matters for regression alerts (suppresses
		// noisy repeats).
		cooled := true
		if rec != nil && rec.LastSentAt != nil {
			cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
		}

		regressionAlert := stateChanged && rank > prevRank && cooled
		recoveryAlert := stateChanged && rank == 0 && prevRank > 0 && a.cfg.AlertOnRecovery // bypass cooldown

		if regressionAlert || recoveryAlert {
			title := fmt.Sprintf("🔴 %s is %s", subject, b.Verdict)
			if recoveryAlert {
				title = fmt.Sprintf("🟢 %s recovered (%s)", subject, b.Verdict)
			}
			_ = a.notifier.Send(ctx, title, batchSummary(b))
			_ = a.alertDB.SetAlert(ctx, subject, b.Verdict, now)
			continue
		}

		// State changed but nothing was sent (cooldown, improvement
		// short of recovery, recovery alerts disabled): still record
		// the new verdict without a send time.
		if stateChanged {
			_ = a.alertDB.SetAlert(ctx, subject, b.Verdict, time.Time{})
		}
	}

	return nil
}

func batchSummary(b *domain.Batch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Verdict: %s\nChecked: %s\n", b.Verdict, b.Timestamp.Format(time.RFC3339))
	for _, o := range b.Outcomes {
		if o.Status.Failing() {
			fmt.Fprintf(&sb, "%s: %s (%s)\n", o.ProbeName, o.Status, o.Detail)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
