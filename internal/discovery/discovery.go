// Package discovery scans a repository root for applications and
// collects the metadata the batteries and the registry need. Pure
// file-system analysis, no network.
package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/domain"
)

// RegistryFile is where the app registry lands, relative to the root.
const RegistryFile = "scripts/app_registry.json"

type Scanner struct {
	Logger *zap.Logger
}

func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{Logger: logger}
}

// Discover treats every top-level directory with a requirements.txt as
// an application and analyzes it.
func (s *Scanner) Discover(root string) ([]domain.App, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read repo root: %w", err)
	}

	var apps []domain.App
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "requirements.txt")); err != nil {
			continue
		}
		app, err := s.analyze(dir)
		if err != nil {
			s.Logger.Warn("analyze_error", zap.String("app", e.Name()), zap.Error(err))
			continue
		}
		apps = append(apps, app)
	}

	s.Logger.Info("apps_discovered", zap.Int("count", len(apps)))
	return apps, nil
}

func (s *Scanner) analyze(dir string) (domain.App, error) {
	app := domain.App{
		Name:       filepath.Base(dir),
		Path:       dir,
		Complexity: "unknown",
	}

	if b, err := os.ReadFile(filepath.Join(dir, "requirements.txt")); err == nil {
		app.Dependencies = ParseRequirements(string(b))
		app.Frameworks = DetectFrameworks(string(b))
	}

	for _, t := range []string{"tests", "test", "testing"} {
		if fi, err := os.Stat(filepath.Join(dir, t)); err == nil && fi.IsDir() {
			app.HasTests = true
			break
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Dockerfile")); err == nil {
		app.HasDocker = true
	}

	app.Complexity = complexity(countSourceLines(dir))
	return app, nil
}

func countSourceLines(dir string) int {
	total := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		if b, err := os.ReadFile(path); err == nil {
			total += strings.Count(string(b), "\n") + 1
		}
		return nil
	})
	return total
}

func complexity(lines int) string {
	switch {
	case lines < 100:
		return "simple"
	case lines < 500:
		return "moderate"
	default:
		return "complex"
	}
}

// WriteRegistry persists the discovered apps as JSON under the root.
func WriteRegistry(root string, apps []domain.App) error {
	path := filepath.Join(root, RegistryFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadRegistry loads a previously written registry.
func ReadRegistry(root string) ([]domain.App, error) {
	b, err := os.ReadFile(filepath.Join(root, RegistryFile))
	if err != nil {
		return nil, err
	}
	var apps []domain.App
	if err := json.Unmarshal(b, &apps); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return apps, nil
}
