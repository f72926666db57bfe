package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hamed0406/appsentry/internal/domain"
)

// python is the interpreter used for the subprocess-backed probes.
// Overridable for environments where only "python" is on PATH.
var python = "python3"

type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runCommand executes a command under ctx and captures its output.
// Non-zero exit codes are part of the result, not an error; a deadline
// hit is reported via context.DeadlineExceeded.
func runCommand(ctx context.Context, dir, name string, args ...string) (*execResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &execResult{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return res, context.DeadlineExceeded
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// execOutcome maps a command run to an outcome: exit 0 passes, non-zero
// fails with the command's stderr (or stdout) as the diagnostic.
func execOutcome(ctx context.Context, dir, name string, args ...string) domain.Outcome {
	res, err := runCommand(ctx, dir, name, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Outcome{Status: domain.StatusError, Detail: "timeout"}
		}
		return domain.Outcome{Status: domain.StatusError, Detail: err.Error()}
	}
	if res.exitCode == 0 {
		return domain.Outcome{Status: domain.StatusPassed, Detail: res.stdout}
	}
	detail := res.stderr
	if detail == "" {
		detail = res.stdout
	}
	return domain.Outcome{Status: domain.StatusFailed, Detail: detail}
}

// Dependency checks that the application's requirements resolve
// cleanly, via a dry-run install.
func Dependency(appPath string) Probe {
	return Probe{
		Name: "dependency_check",
		Kind: KindDependency,
		Run: func(ctx context.Context) domain.Outcome {
			req := filepath.Join(appPath, "requirements.txt")
			if _, err := os.Stat(req); err != nil {
				return domain.Outcome{Status: domain.StatusFailed, Detail: "No requirements.txt found"}
			}
			out := execOutcome(ctx, appPath, python, "-m", "pip", "install", "-r", req, "--dry-run")
			if out.Status == domain.StatusPassed {
				out.Detail = "All dependencies can be installed"
			}
			return out
		},
	}
}

// UnitTests runs the application's test suite when it has one, and
// reports a skip (with a reminder) when it does not.
func UnitTests(appPath string) Probe {
	return Probe{
		Name: "unit_tests",
		Kind: KindUnitTest,
		Run: func(ctx context.Context) domain.Outcome {
			dir := testDir(appPath)
			if dir == "" {
				return domain.Outcome{
					Status:         domain.StatusSkipped,
					Detail:         "No test directory found",
					Recommendation: "Add unit tests",
				}
			}
			return execOutcome(ctx, appPath, python, "-m", "pytest", dir, "-v", "--tb=short")
		},
	}
}

// Security scans the requirements file for known vulnerabilities.
func Security(appPath string) Probe {
	return Probe{
		Name: "security_scan",
		Kind: KindSecurity,
		Run: func(ctx context.Context) domain.Outcome {
			req := filepath.Join(appPath, "requirements.txt")
			if _, err := os.Stat(req); err != nil {
				return domain.Outcome{Status: domain.StatusSkipped, Detail: "No requirements.txt found"}
			}
			res, err := runCommand(ctx, appPath, python, "-m", "safety", "check", "-r", req)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return domain.Outcome{Status: domain.StatusError, Detail: "timeout"}
				}
				return domain.Outcome{Status: domain.StatusError, Detail: err.Error()}
			}
			if res.exitCode == 0 {
				return domain.Outcome{Status: domain.StatusPassed, Detail: "No security vulnerabilities found"}
			}
			// safety prints the vulnerability listing on stdout
			return domain.Outcome{Status: domain.StatusFailed, Detail: res.stdout}
		},
	}
}

func testDir(appPath string) string {
	for _, name := range []string{"tests", "test", "testing"} {
		dir := filepath.Join(appPath, name)
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return ""
}
