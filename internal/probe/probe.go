// Package probe defines the unit of work run by a battery: one named
// check producing one outcome. Probes are plain values; the executable
// body is injected at construction so the orchestrator stays free of
// check-specific logic.
package probe

import (
	"context"

	"github.com/hamed0406/appsentry/internal/domain"
)

// Kind classifies what a probe checks.
type Kind string

const (
	KindDependency      Kind = "dependency"
	KindConfiguration   Kind = "configuration"
	KindUnitTest        Kind = "unit-test"
	KindIntegrationTest Kind = "integration-test"
	KindPerformance     Kind = "performance"
	KindSecurity        Kind = "security"
	KindEndpoint        Kind = "endpoint-health"
	KindModelMock       Kind = "model-mock"
)

// RunFunc executes the check. It must honor ctx cancellation and
// translate its own faults into a Status rather than panicking; the
// batch runner's recovery wrapper is only the second line of defense.
// Name, latency and timestamp are stamped by the runner.
type RunFunc func(ctx context.Context) domain.Outcome

// Probe is immutable once constructed. Name must be unique within a Set.
type Probe struct {
	Name string
	Kind Kind
	Run  RunFunc
}

// Set is an ordered collection of probes for one subject. Batch
// outcomes preserve this order even though execution is concurrent.
type Set []Probe

// Names returns probe names in declaration order.
func (s Set) Names() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Name
	}
	return out
}
