package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/probe"
	"github.com/hamed0406/appsentry/internal/repo"
	"github.com/hamed0406/appsentry/internal/verdict"
)

// Subject is one monitored unit: an application (or app+environment)
// and the probe set to run against it each cycle.
type Subject struct {
	ID     string
	Probes probe.Set
}

// SubjectSource supplies the subjects for each cycle, so the set can
// change between cycles without restarting the monitor.
type SubjectSource interface {
	Subjects(ctx context.Context) ([]Subject, error)
}

// StaticSubjects is a fixed SubjectSource.
type StaticSubjects []Subject

func (s StaticSubjects) Subjects(ctx context.Context) ([]Subject, error) { return s, nil }

// Monitor runs the continuous cycle: every interval, all subjects are
// checked concurrently (and each subject's probes concurrently inside
// the batch runner), producing one snapshot per cycle.
type Monitor struct {
	Logger    *zap.Logger
	Runner    *battery.Runner
	Source    SubjectSource
	Snapshots repo.SnapshotStore
	Fleet     verdict.Scale

	Interval    time.Duration
	Concurrency int
	// StopImmediate abandons the in-flight cycle on cancellation
	// instead of letting it finish.
	StopImmediate bool
}

func NewMonitor(
	logger *zap.Logger,
	runner *battery.Runner,
	source SubjectSource,
	snapshots repo.SnapshotStore,
	interval time.Duration,
	concurrency int,
) *Monitor {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		Logger:      logger,
		Runner:      runner,
		Source:      source,
		Snapshots:   snapshots,
		Fleet:       verdict.Fleet(),
		Interval:    interval,
		Concurrency: concurrency,
	}
}

// Run starts the loop: an immediate cycle, then one per tick, until ctx
// is cancelled. A failed cycle degrades that cycle's data, never the
// loop.
func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTicker(m.Interval)
	defer t.Stop()

	m.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			m.Logger.Info("monitor_stopped")
			return
		case <-t.C:
			m.runCycle(ctx)
		}
	}
}

func (m *Monitor) runCycle(ctx context.Context) {
	cctx := ctx
	if !m.StopImmediate {
		// graceful stop: the in-flight cycle finishes even if ctx is
		// cancelled between the tick and completion
		cctx = context.WithoutCancel(ctx)
	}
	snap := m.Cycle(cctx)
	if snap == nil {
		return
	}
	if err := m.Snapshots.Append(cctx, snap); err != nil {
		m.Logger.Warn("snapshot_append_error", zap.Error(err))
	}
}

// Cycle checks every subject once and returns the snapshot. A fault
// while checking one subject degrades only that subject's batch; the
// other subjects and the cycle itself always complete.
func (m *Monitor) Cycle(ctx context.Context) *domain.Snapshot {
	subjects, err := m.Source.Subjects(ctx)
	if err != nil {
		m.Logger.Warn("subject_list_error", zap.Error(err))
		return nil
	}

	batches := make(map[string]*domain.Batch, len(subjects))
	var mu sync.Mutex
	sem := make(chan struct{}, m.Concurrency)
	var wg sync.WaitGroup

	for _, subj := range subjects {
		sem <- struct{}{}
		wg.Add(1)
		go func(subj Subject) {
			defer func() { <-sem }()
			defer wg.Done()

			b, err := m.Runner.RunBatch(ctx, subj.ID, subj.Probes)
			if err != nil {
				m.Logger.Warn("batch_error",
					zap.String("subject", subj.ID),
					zap.Error(err),
				)
				b = m.errorBatch(subj.ID, err)
			}
			mu.Lock()
			batches[subj.ID] = b
			mu.Unlock()
		}(subj)
	}
	wg.Wait()

	return m.snapshot(batches)
}

// errorBatch stands in for a subject whose battery could not run at
// all, so the snapshot still has one batch per subject.
func (m *Monitor) errorBatch(subjectID string, err error) *domain.Batch {
	outcomes := []domain.Outcome{{
		ProbeName: "battery",
		Status:    domain.StatusError,
		Detail:    err.Error(),
		CheckedAt: time.Now().UTC(),
	}}
	return &domain.Batch{
		SubjectID:       subjectID,
		Timestamp:       time.Now().UTC(),
		Outcomes:        outcomes,
		Verdict:         m.Runner.Scale.Aggregate(outcomes),
		Recommendations: verdict.Recommend(outcomes, m.Runner.General),
	}
}

func (m *Monitor) snapshot(batches map[string]*domain.Batch) *domain.Snapshot {
	snap := &domain.Snapshot{
		Timestamp: time.Now().UTC(),
		Batches:   batches,
		Overall:   domain.VerdictUnknown,
	}
	if len(batches) == 0 {
		return snap
	}

	best := m.Runner.Scale.Best()
	notBest := 0
	for subject, b := range batches {
		if b.Verdict == best {
			continue
		}
		notBest++
		msg := "subject " + string(b.Verdict)
		for _, o := range b.Outcomes {
			if o.Status.Failing() {
				msg = o.ProbeName + ": " + o.Detail
				break
			}
		}
		snap.Alerts = append(snap.Alerts, domain.Alert{
			Subject: subject,
			Verdict: b.Verdict,
			Message: msg,
		})
	}

	ratio := float64(notBest) / float64(len(batches))
	snap.Overall = m.Fleet.ForRatio(ratio)

	m.Logger.Info("cycle_complete",
		zap.Int("subjects", len(batches)),
		zap.Int("not_best", notBest),
		zap.String("overall", string(snap.Overall)),
	)
	return snap
}
