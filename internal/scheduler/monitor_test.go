package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/probe"
	"github.com/hamed0406/appsentry/internal/repo/memory"
	"github.com/hamed0406/appsentry/internal/verdict"
)

func fixed(name string, status domain.Status, detail string) probe.Probe {
	return probe.Probe{
		Name: name,
		Kind: probe.KindEndpoint,
		Run: func(ctx context.Context) domain.Outcome {
			return domain.Outcome{Status: status, Detail: detail}
		},
	}
}

func subject(id string, statuses ...domain.Status) Subject {
	set := make(probe.Set, len(statuses))
	for i, s := range statuses {
		set[i] = fixed(string(rune('a'+i)), s, "")
	}
	return Subject{ID: id, Probes: set}
}

func newTestMonitor(store *memory.Store, subjects ...Subject) *Monitor {
	runner := battery.NewRunner(zap.NewNop(), time.Second, verdict.Liveness(), nil)
	return NewMonitor(zap.NewNop(), runner, StaticSubjects(subjects), store, time.Minute, 4)
}

func TestCycle_AllHealthy(t *testing.T) {
	store := memory.New()
	m := newTestMonitor(store,
		subject("app1", domain.StatusPassed),
		subject("app2", domain.StatusPassed, domain.StatusPassed),
	)

	snap := m.Cycle(context.Background())
	if snap == nil {
		t.Fatal("nil snapshot")
	}
	if snap.Overall != domain.VerdictHealthy {
		t.Fatalf("want healthy, got %s", snap.Overall)
	}
	if len(snap.Alerts) != 0 {
		t.Fatalf("no alerts expected, got %v", snap.Alerts)
	}
	if len(snap.Batches) != 2 {
		t.Fatalf("want a batch per subject, got %d", len(snap.Batches))
	}
}

// One of five subjects down is exactly the 20% boundary: degraded, not
// unhealthy.
func TestCycle_BoundaryDegraded(t *testing.T) {
	store := memory.New()
	m := newTestMonitor(store,
		subject("app1", domain.StatusPassed),
		subject("app2", domain.StatusPassed),
		subject("app3", domain.StatusPassed),
		subject("app4", domain.StatusPassed),
		subject("app5", domain.StatusFailed, domain.StatusFailed),
	)

	snap := m.Cycle(context.Background())
	if snap.Overall != domain.VerdictDegraded {
		t.Fatalf("1/5 unhealthy: want degraded, got %s", snap.Overall)
	}
	if len(snap.Alerts) != 1 || snap.Alerts[0].Subject != "app5" {
		t.Fatalf("want one alert for app5, got %v", snap.Alerts)
	}
}

func TestCycle_SubjectFaultIsolated(t *testing.T) {
	store := memory.New()
	// duplicate probe names make this subject's battery unrunnable
	broken := Subject{ID: "broken", Probes: probe.Set{
		fixed("dup", domain.StatusPassed, ""),
		fixed("dup", domain.StatusPassed, ""),
	}}
	m := newTestMonitor(store, subject("fine", domain.StatusPassed), broken)

	snap := m.Cycle(context.Background())
	if len(snap.Batches) != 2 {
		t.Fatalf("broken subject must still have a batch, got %d", len(snap.Batches))
	}
	if got := snap.Batches["fine"].Verdict; got != domain.VerdictHealthy {
		t.Fatalf("healthy subject affected by broken one: %s", got)
	}
	b := snap.Batches["broken"]
	if b.Verdict != domain.VerdictUnhealthy {
		t.Fatalf("broken subject should be unhealthy, got %s", b.Verdict)
	}
	if len(b.Outcomes) != 1 || b.Outcomes[0].Status != domain.StatusError {
		t.Fatalf("broken subject should carry one error outcome, got %+v", b.Outcomes)
	}
}

func TestCycle_NoSubjects(t *testing.T) {
	m := newTestMonitor(memory.New())
	snap := m.Cycle(context.Background())
	if snap.Overall != domain.VerdictUnknown {
		t.Fatalf("empty fleet should be unknown, got %s", snap.Overall)
	}
}

func TestRun_AppendsSnapshotsAndStops(t *testing.T) {
	store := memory.New()
	m := newTestMonitor(store, subject("app1", domain.StatusPassed))
	m.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	m.Run(ctx) // returns on ctx cancellation

	snap, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest err: %v", err)
	}
	if snap == nil {
		t.Fatal("no snapshot persisted")
	}
	if snap.Batches["app1"] == nil {
		t.Fatal("snapshot missing subject batch")
	}
}
