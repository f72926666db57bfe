package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appsentry.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.Monitoring.Interval.Std() != 30*time.Second {
		t.Fatalf("interval = %v", cfg.Monitoring.Interval.Std())
	}
	if len(cfg.Recommendations) != 5 {
		t.Fatalf("want 5 default recommendations, got %d", len(cfg.Recommendations))
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr: "0.0.0.0:9090"
log_dir: "/var/log/appsentry"
monitoring:
  interval: "1m"
  probe_timeout: "5s"
  concurrency: 4
  retry_attempts: 3
  alert_cooldown: "30m"
  alert_on_recovery: true
applications:
  chatbot:
    path: "apps/chatbot"
    port: 8100
    environment: "production"
    health_endpoints: ["/health", "/ready"]
  summarizer:
    path: "apps/summarizer"
    base_url: "https://summarizer.internal"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9090" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.Monitoring.Interval.Std() != time.Minute || cfg.Monitoring.ProbeTimeout.Std() != 5*time.Second {
		t.Fatalf("durations not parsed: %+v", cfg.Monitoring)
	}
	if !cfg.Monitoring.AlertOnRecovery || cfg.Monitoring.RetryAttempts != 3 {
		t.Fatalf("monitoring = %+v", cfg.Monitoring)
	}

	chatbot := cfg.Applications["chatbot"]
	if chatbot.ResolvedBaseURL() != "http://localhost:8100" {
		t.Fatalf("chatbot base url = %q", chatbot.ResolvedBaseURL())
	}
	if len(chatbot.HealthEndpoints) != 2 {
		t.Fatalf("chatbot endpoints = %v", chatbot.HealthEndpoints)
	}
	if got := cfg.Applications["summarizer"].ResolvedBaseURL(); got != "https://summarizer.internal" {
		t.Fatalf("summarizer base url = %q", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", "10.0.0.1:7070")
	t.Setenv("SLACK_WEBHOOK", "https://hooks.slack.test/T000")
	t.Setenv("RETRY_ATTEMPTS", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "10.0.0.1:7070" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.SlackWebhook != "https://hooks.slack.test/T000" {
		t.Fatalf("webhook = %q", cfg.SlackWebhook)
	}
	if cfg.Monitoring.RetryAttempts != 5 {
		t.Fatalf("retry attempts = %d", cfg.Monitoring.RetryAttempts)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	path := writeConfig(t, `
monitoring:
  probe_timeout: "0s"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "probe_timeout") {
		t.Fatalf("want probe_timeout error, got %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
monitoring:
  interval: "soon"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("want parse error for bad duration")
	}
}

func TestCustomScales(t *testing.T) {
	path := writeConfig(t, `
scales:
  liveness:
    tiers:
      - max_ratio: 0.0
        verdict: "healthy"
      - max_ratio: 0.25
        verdict: "degraded"
    fallback: "unhealthy"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	liveness := cfg.LivenessScale()
	if got := liveness.ForRatio(0.25); got != domain.VerdictDegraded {
		t.Fatalf("ratio 0.25 = %s, want degraded", got)
	}
	if got := liveness.ForRatio(0.26); got != domain.VerdictUnhealthy {
		t.Fatalf("ratio 0.26 = %s, want unhealthy", got)
	}

	// quality untouched, falls back to the built-in scale
	quality := cfg.QualityScale()
	if got := quality.ForRatio(0); got != domain.VerdictExcellent {
		t.Fatalf("default quality ratio 0 = %s", got)
	}
}
