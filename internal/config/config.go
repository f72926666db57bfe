package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/verdict"
)

// Duration accepts "30s" style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("duration: must be a string like \"30s\"")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Addr         string `yaml:"addr"`
	LogDir       string `yaml:"log_dir"`
	DatabaseURL  string `yaml:"database_url"`
	SlackWebhook string `yaml:"slack_webhook"`

	GitHub GitHub `yaml:"github"`

	Monitoring Monitoring `yaml:"monitoring"`
	Scales     Scales     `yaml:"scales"`

	// Recommendations is the fixed trailing hygiene list appended to
	// every batch.
	Recommendations []string `yaml:"recommendations"`

	Applications map[string]App `yaml:"applications" validate:"dive"`
}

type GitHub struct {
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type Monitoring struct {
	Interval      Duration `yaml:"interval"`
	ProbeTimeout  Duration `yaml:"probe_timeout"`
	Concurrency   int      `yaml:"concurrency" validate:"gte=0"`
	StopImmediate bool     `yaml:"stop_immediate"`

	RetryAttempts int      `yaml:"retry_attempts" validate:"gte=0"`
	RetryBackoff  Duration `yaml:"retry_backoff"`

	AlertCooldown   Duration `yaml:"alert_cooldown"`
	AlertOnRecovery bool     `yaml:"alert_on_recovery"`
}

type Tier struct {
	MaxRatio float64 `yaml:"max_ratio" validate:"gte=0,lte=1"`
	Verdict  string  `yaml:"verdict" validate:"required"`
}

type ScaleDef struct {
	Tiers    []Tier `yaml:"tiers" validate:"required,dive"`
	Fallback string `yaml:"fallback" validate:"required"`
}

type Scales struct {
	Quality  *ScaleDef `yaml:"quality"`
	Liveness *ScaleDef `yaml:"liveness"`
}

type App struct {
	Path            string   `yaml:"path"`
	BaseURL         string   `yaml:"base_url"`
	Port            int      `yaml:"port" validate:"gte=0,lte=65535"`
	Environment     string   `yaml:"environment"`
	HealthEndpoints []string `yaml:"health_endpoints"`
}

// ResolvedBaseURL falls back to localhost plus the configured port.
func (a App) ResolvedBaseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	port := a.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// Default carries the values the system ships with; a config file and
// the environment override it.
func Default() Config {
	return Config{
		Addr:   "127.0.0.1:8080",
		LogDir: "logs",
		Monitoring: Monitoring{
			Interval:      Duration(30 * time.Second),
			ProbeTimeout:  Duration(10 * time.Second),
			Concurrency:   8,
			RetryAttempts: 1,
			RetryBackoff:  Duration(300 * time.Millisecond),
			AlertCooldown: Duration(10 * time.Minute),
		},
		Recommendations: verdict.GeneralRecommendations(),
	}
}

// Load reads the YAML file (missing file means defaults), applies env
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	if cfg.Monitoring.ProbeTimeout <= 0 {
		return cfg, fmt.Errorf("validate config: probe_timeout must be positive")
	}
	if cfg.Monitoring.Interval <= 0 {
		return cfg, fmt.Errorf("validate config: interval must be positive")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SLACK_WEBHOOK"); v != "" {
		c.SlackWebhook = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Monitoring.RetryAttempts = n
		}
	}
}

// QualityScale builds the five-tier scale, from config when present.
func (c Config) QualityScale() verdict.Scale {
	if c.Scales.Quality != nil {
		return c.Scales.Quality.build("quality")
	}
	return verdict.Quality()
}

// LivenessScale builds the three-tier scale, from config when present.
func (c Config) LivenessScale() verdict.Scale {
	if c.Scales.Liveness != nil {
		return c.Scales.Liveness.build("liveness")
	}
	return verdict.Liveness()
}

func (d ScaleDef) build(name string) verdict.Scale {
	s := verdict.Scale{Name: name, Fallback: domain.Verdict(d.Fallback)}
	for _, t := range d.Tiers {
		s.Tiers = append(s.Tiers, verdict.Tier{
			MaxRatio: t.MaxRatio,
			Verdict:  domain.Verdict(t.Verdict),
		})
	}
	return s
}
