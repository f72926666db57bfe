// Package battery runs a probe set concurrently and reduces the
// outcomes into a finalized batch. One probe in, one outcome out,
// always: faults and timeouts become error outcomes, never lost
// results and never an aborted batch.
package battery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/probe"
	"github.com/hamed0406/appsentry/internal/verdict"
)

// ConfigError marks a malformed run request: a caller bug, surfaced
// before any probe is scheduled.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "battery: " + e.Reason }

// Runner executes batches. Safe for concurrent use; probes share no
// state through it.
type Runner struct {
	Logger  *zap.Logger
	Timeout time.Duration // per-probe deadline
	Scale   verdict.Scale
	General []string // trailing hygiene recommendations
}

func NewRunner(logger *zap.Logger, timeout time.Duration, scale verdict.Scale, general []string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Logger: logger, Timeout: timeout, Scale: scale, General: general}
}

// RunBatch fans out every probe in set, waits for the full outcome map
// and returns the aggregated batch. Outcomes keep the set's declaration
// order. The returned batch is complete and final; it is never mutated
// afterwards.
func (r *Runner) RunBatch(ctx context.Context, subjectID string, set probe.Set) (*domain.Batch, error) {
	if err := validate(subjectID, set, r.Timeout); err != nil {
		return nil, err
	}

	outcomes := make([]domain.Outcome, len(set))
	var wg sync.WaitGroup
	for i, p := range set {
		wg.Add(1)
		go func(i int, p probe.Probe) {
			defer wg.Done()
			outcomes[i] = r.runProbe(ctx, p)
		}(i, p)
	}
	wg.Wait()

	b := &domain.Batch{
		SubjectID:       subjectID,
		Timestamp:       time.Now().UTC(),
		Outcomes:        outcomes,
		Verdict:         r.Scale.Aggregate(outcomes),
		Recommendations: verdict.Recommend(outcomes, r.General),
	}

	r.Logger.Debug("batch_complete",
		zap.String("subject", subjectID),
		zap.Int("probes", len(set)),
		zap.String("verdict", string(b.Verdict)),
	)
	return b, nil
}

// runProbe bounds one probe with its own deadline and converts panics
// and overruns into error outcomes. A probe that outlives its deadline
// is abandoned; its context is cancelled so subprocesses and requests
// get torn down rather than ignored.
func (r *Runner) runProbe(ctx context.Context, p probe.Probe) domain.Outcome {
	pctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan domain.Outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- domain.Outcome{
					Status: domain.StatusError,
					Detail: fmt.Sprintf("panic: %v", rec),
				}
			}
		}()
		done <- p.Run(pctx)
	}()

	select {
	case out := <-done:
		out.ProbeName = p.Name
		out.Latency = time.Since(start)
		out.CheckedAt = time.Now().UTC()
		return out
	case <-pctx.Done():
		r.Logger.Warn("probe_timeout",
			zap.String("probe", p.Name),
			zap.Duration("timeout", r.Timeout),
		)
		return domain.Outcome{
			ProbeName: p.Name,
			Status:    domain.StatusError,
			Detail:    "timeout",
			Latency:   r.Timeout,
			CheckedAt: time.Now().UTC(),
		}
	}
}

func validate(subjectID string, set probe.Set, timeout time.Duration) error {
	if subjectID == "" {
		return &ConfigError{Reason: "empty subject id"}
	}
	if timeout <= 0 {
		return &ConfigError{Reason: "per-probe timeout must be positive"}
	}
	seen := make(map[string]struct{}, len(set))
	for _, p := range set {
		if p.Name == "" {
			return &ConfigError{Reason: "probe with empty name"}
		}
		if p.Run == nil {
			return &ConfigError{Reason: fmt.Sprintf("probe %q has no run function", p.Name)}
		}
		if _, dup := seen[p.Name]; dup {
			return &ConfigError{Reason: fmt.Sprintf("duplicate probe name %q", p.Name)}
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
