package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

// NewHTTPClient builds the client shared by all endpoint probes of one
// runner. The client timeout is a backstop; the real bound is the
// per-probe context deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Endpoint probes GET base+path and passes only on 200, the contract
// health endpoints are expected to meet.
func Endpoint(client *http.Client, baseURL, path string) Probe {
	url := strings.TrimRight(baseURL, "/") + path
	return Probe{
		Name: path,
		Kind: KindEndpoint,
		Run: func(ctx context.Context) domain.Outcome {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return domain.Outcome{Status: domain.StatusError, Detail: err.Error()}
			}
			resp, err := client.Do(req)
			if err != nil {
				if ctx.Err() == context.DeadlineExceeded {
					return domain.Outcome{Status: domain.StatusError, Detail: "timeout"}
				}
				return domain.Outcome{Status: domain.StatusError, Detail: err.Error()}
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				return domain.Outcome{Status: domain.StatusPassed, Detail: "OK"}
			}
			return domain.Outcome{
				Status: domain.StatusFailed,
				Detail: fmt.Sprintf("HTTP %d", resp.StatusCode),
			}
		},
	}
}

// HealthSet builds one endpoint probe per health endpoint of a subject.
func HealthSet(client *http.Client, baseURL string, endpoints []string) Set {
	if len(endpoints) == 0 {
		endpoints = []string{"/health"}
	}
	set := make(Set, 0, len(endpoints))
	for _, ep := range endpoints {
		set = append(set, Endpoint(client, baseURL, ep))
	}
	return set
}
