package verdict

import (
	"fmt"

	"github.com/hamed0406/appsentry/internal/domain"
)

// GeneralRecommendations are the hygiene reminders appended to every
// batch regardless of outcomes. Callers usually override this from
// config; the defaults match what the CLI has always printed.
func GeneralRecommendations() []string {
	return []string{
		"📚 Add comprehensive README with setup instructions",
		"🐳 Add Dockerfile for containerization",
		"⚙️ Add GitHub Actions CI/CD workflow",
		"📊 Add health check endpoints",
		"🔍 Add logging and monitoring",
	}
}

// Recommend builds the ordered recommendation list for an outcome set:
// fixes for failing probes first, then reminders for skipped ones, then
// advisories attached to otherwise fine outcomes, then the general
// list. general is always appended, even to a fully green batch.
func Recommend(outcomes []domain.Outcome, general []string) []string {
	recs := make([]string, 0, len(outcomes)+len(general))

	for _, o := range outcomes {
		if o.Status.Failing() {
			detail := o.Detail
			if detail == "" {
				detail = "unknown error"
			}
			recs = append(recs, fmt.Sprintf("🔴 Fix %s: %s", o.ProbeName, detail))
		}
	}
	for _, o := range outcomes {
		if o.Status == domain.StatusSkipped {
			reason := o.Recommendation
			if reason == "" {
				reason = "not implemented"
			}
			recs = append(recs, fmt.Sprintf("⚠️ Implement %s: %s", o.ProbeName, reason))
		}
	}
	for _, o := range outcomes {
		if !o.Status.Failing() && o.Status != domain.StatusSkipped && o.Recommendation != "" {
			recs = append(recs, "💡 "+o.Recommendation)
		}
	}

	return append(recs, general...)
}
