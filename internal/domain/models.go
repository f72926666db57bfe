package domain

import "time"

// Status is the result class of a single probe run.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusDegraded Status = "degraded"
	StatusSkipped  Status = "skipped"
	StatusError    Status = "error"
)

// Failing reports whether the status counts against the failure ratio.
// Skipped and degraded outcomes do not.
func (s Status) Failing() bool {
	return s == StatusFailed || s == StatusError
}

// Verdict is one named level on an aggregation scale.
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictFair      Verdict = "fair"
	VerdictPoor      Verdict = "poor"

	VerdictHealthy   Verdict = "healthy"
	VerdictDegraded  Verdict = "degraded"
	VerdictUnhealthy Verdict = "unhealthy"

	VerdictUnknown Verdict = "unknown"
)

// Outcome is the immutable result of one probe invocation.
type Outcome struct {
	ProbeName      string        `json:"probe_name"`
	Status         Status        `json:"status"`
	Latency        time.Duration `json:"latency_ms"`
	Detail         string        `json:"detail,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
	CheckedAt      time.Time     `json:"checked_at"`
}

// Batch is the complete set of outcomes for one subject in one cycle,
// plus the verdict and recommendations derived from them. It is never
// mutated after the verdict is set.
type Batch struct {
	SubjectID       string    `json:"subject_id"`
	Timestamp       time.Time `json:"timestamp"`
	Outcomes        []Outcome `json:"outcomes"`
	Verdict         Verdict   `json:"verdict"`
	Recommendations []string  `json:"recommendations"`
}

// Outcome returns the outcome for a probe name, or nil.
func (b *Batch) Outcome(name string) *Outcome {
	for i := range b.Outcomes {
		if b.Outcomes[i].ProbeName == name {
			return &b.Outcomes[i]
		}
	}
	return nil
}

// Alert flags one subject whose batch did not land on the best tier.
type Alert struct {
	Subject string  `json:"subject"`
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
}

// Snapshot is the point-in-time view across all monitored subjects
// for one cycle.
type Snapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Batches   map[string]*Batch `json:"batches"`
	Overall   Verdict           `json:"overall_status"`
	Alerts    []Alert           `json:"alerts"`
}
