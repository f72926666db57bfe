package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/notify"
	"github.com/hamed0406/appsentry/internal/repo/memory"
)

type fakeIssuer struct {
	calls   []string
	failFor string
}

func (f *fakeIssuer) CreateIssue(_ context.Context, title, body string, labels []string) (*notify.Issue, error) {
	f.calls = append(f.calls, title)
	if f.failFor != "" && strings.Contains(title, f.failFor) {
		return nil, errors.New("boom")
	}
	return &notify.Issue{Number: len(f.calls), HTMLURL: "https://github.test/issues/" + title}, nil
}

type recordingNotifier struct {
	titles []string
}

func (r *recordingNotifier) Send(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return nil
}

func testDeployment() domain.Deployment {
	return domain.Deployment{
		ID:          "dep-1",
		App:         "chatbot",
		Environment: "production",
		Version:     "1.2.0",
	}
}

func TestCreateFollowups(t *testing.T) {
	issuer := &fakeIssuer{}
	chat := &recordingNotifier{}
	store := memory.New()
	integ := NewIntegrator(nil, issuer, chat, store)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	integ.Now = func() time.Time { return base }

	tasks, err := integ.CreateFollowups(context.Background(), testDeployment())
	if err != nil {
		t.Fatalf("CreateFollowups: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("want 5 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.Title != "Performance Monitoring Setup - chatbot" {
		t.Fatalf("title: %q", first.Title)
	}
	if first.Priority != "high" || first.Assignee != "devops-team" || first.EstimatedHours != 2 {
		t.Fatalf("template fields not applied: %+v", first)
	}
	if !first.DueDate.Equal(base.Add(24 * time.Hour)) {
		t.Fatalf("due date: %v", first.DueDate)
	}
	if first.ID == "" || first.ID == tasks[1].ID {
		t.Fatalf("tasks must get unique ids: %q vs %q", first.ID, tasks[1].ID)
	}
	if first.IssueNumber != 1 || first.IssueURL == "" {
		t.Fatalf("issue not linked: %+v", first)
	}

	sec := tasks[1]
	if sec.Category != "security_validation" || sec.Priority != "critical" {
		t.Fatalf("second template wrong: %+v", sec)
	}

	stored, err := store.TasksByApp(context.Background(), "chatbot")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 5 {
		t.Fatalf("want 5 stored tasks, got %d", len(stored))
	}
	if len(chat.titles) != 5 {
		t.Fatalf("want 5 chat pings, got %d", len(chat.titles))
	}
}

func TestCreateFollowupsSkipsFailedIssue(t *testing.T) {
	issuer := &fakeIssuer{failFor: "Security Validation"}
	store := memory.New()
	integ := NewIntegrator(nil, issuer, nil, store)

	tasks, err := integ.CreateFollowups(context.Background(), testDeployment())
	if err != nil {
		t.Fatalf("CreateFollowups: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("failed issue should drop its task: got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Category == "security_validation" {
			t.Fatalf("security task should have been skipped")
		}
	}
	stored, _ := store.TasksByApp(context.Background(), "chatbot")
	if len(stored) != 4 {
		t.Fatalf("store should only hold surviving tasks, got %d", len(stored))
	}
}

func TestCreateFollowupsWithoutIssuer(t *testing.T) {
	integ := NewIntegrator(nil, nil, nil, memory.New())
	tasks, err := integ.CreateFollowups(context.Background(), testDeployment())
	if err != nil {
		t.Fatalf("CreateFollowups: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("want 5 tasks, got %d", len(tasks))
	}
	if tasks[0].IssueNumber != 0 || tasks[0].IssueURL != "" {
		t.Fatalf("no issuer means no issue link: %+v", tasks[0])
	}
}

func TestCreateFollowupsUnconfiguredGitHub(t *testing.T) {
	// NewGitHub with missing credentials yields a typed nil; the
	// integrator must treat it like no issuer, not fail every task.
	store := memory.New()
	integ := NewIntegrator(nil, notify.NewGitHub("", "", ""), nil, store)

	tasks, err := integ.CreateFollowups(context.Background(), testDeployment())
	if err != nil {
		t.Fatalf("CreateFollowups: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("want 5 mandatory tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.IssueNumber != 0 || task.IssueURL != "" {
			t.Fatalf("no issue should be linked: %+v", task)
		}
	}
	stored, _ := store.TasksByApp(context.Background(), "chatbot")
	if len(stored) != 5 {
		t.Fatalf("want 5 stored tasks, got %d", len(stored))
	}
}

func TestIssueBody(t *testing.T) {
	body := issueBody(domain.Task{
		App:          "chatbot",
		DeploymentID: "dep-9",
		Environment:  "staging",
		Category:     "testing",
		Priority:     "high",
		Description:  "Coordinate UAT",
		Assignee:     "qa-team",
		DueDate:      time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC),
	})
	for _, want := range []string{
		"**Category**: testing",
		"**Application**: chatbot",
		"2026-08-05 09:00:00",
		"Coordinate UAT",
		"deployment dep-9",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("issue body missing %q:\n%s", want, body)
		}
	}
}
