// Package verdict folds probe outcomes into a single tiered verdict.
// Aggregation is pure: no I/O, deterministic for a given outcome set.
package verdict

import "github.com/hamed0406/appsentry/internal/domain"

// Tier binds a maximum failure ratio to a verdict. Tiers are evaluated
// strictest first; the first tier whose MaxRatio is not exceeded wins.
type Tier struct {
	MaxRatio float64
	Verdict  domain.Verdict
}

// Scale is an ordered threshold table plus the verdict for ratios past
// every tier. Different batteries use different scales; none is baked
// into the orchestrator.
type Scale struct {
	Name     string
	Tiers    []Tier
	Fallback domain.Verdict
}

// Quality is the four-tier scale used for application test batteries.
// The cutoffs are the 90/70/50 percent success rates expressed as
// failure ratios.
func Quality() Scale {
	return Scale{
		Name: "quality",
		Tiers: []Tier{
			{MaxRatio: 0.1, Verdict: domain.VerdictExcellent},
			{MaxRatio: 0.3, Verdict: domain.VerdictGood},
			{MaxRatio: 0.5, Verdict: domain.VerdictFair},
		},
		Fallback: domain.VerdictPoor,
	}
}

// Liveness is the three-tier scale used for health batteries.
func Liveness() Scale {
	return Scale{
		Name: "liveness",
		Tiers: []Tier{
			{MaxRatio: 0, Verdict: domain.VerdictHealthy},
			{MaxRatio: 0.5, Verdict: domain.VerdictDegraded},
		},
		Fallback: domain.VerdictUnhealthy,
	}
}

// Fleet is the liveness variant applied across subjects in a snapshot:
// any unhealthy subject degrades the fleet, more than 20% makes it
// unhealthy.
func Fleet() Scale {
	return Scale{
		Name: "fleet",
		Tiers: []Tier{
			{MaxRatio: 0, Verdict: domain.VerdictHealthy},
			{MaxRatio: 0.2, Verdict: domain.VerdictDegraded},
		},
		Fallback: domain.VerdictUnhealthy,
	}
}

// Best returns the scale's top tier verdict.
func (s Scale) Best() domain.Verdict {
	if len(s.Tiers) == 0 {
		return s.Fallback
	}
	return s.Tiers[0].Verdict
}

// Rank maps a verdict to its position on the scale: 0 is best, larger
// is worse. Unknown verdicts (including "unknown" itself) rank past the
// fallback so a regression into them is still a regression.
func (s Scale) Rank(v domain.Verdict) int {
	for i, t := range s.Tiers {
		if t.Verdict == v {
			return i
		}
	}
	if v == s.Fallback {
		return len(s.Tiers)
	}
	return len(s.Tiers) + 1
}

// ForRatio selects the tier for a failure ratio. Boundary ratios take
// the better tier (<= comparison): exactly 20% of subjects down is
// degraded, not unhealthy.
func (s Scale) ForRatio(ratio float64) domain.Verdict {
	for _, t := range s.Tiers {
		if ratio <= t.MaxRatio {
			return t.Verdict
		}
	}
	return s.Fallback
}

// FailureRatio computes failing outcomes over non-skipped outcomes.
// Skipped probes stay out of the denominator so checks that are
// deliberately not implemented yet do not drag the verdict down.
// counted is the denominator; zero means every probe was skipped.
func FailureRatio(outcomes []domain.Outcome) (ratio float64, counted int) {
	failing := 0
	for _, o := range outcomes {
		if o.Status == domain.StatusSkipped {
			continue
		}
		counted++
		if o.Status.Failing() {
			failing++
		}
	}
	if counted == 0 {
		return 0, 0
	}
	return float64(failing) / float64(counted), counted
}

// Aggregate reduces an outcome set to one verdict on this scale. An
// empty or entirely-skipped set is a valid degenerate state and maps to
// unknown rather than an error.
func (s Scale) Aggregate(outcomes []domain.Outcome) domain.Verdict {
	ratio, counted := FailureRatio(outcomes)
	if counted == 0 {
		return domain.VerdictUnknown
	}
	return s.ForRatio(ratio)
}
