package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

func TestSnapshotAppendLatest(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("empty store should report no snapshot")
	}

	first := &domain.Snapshot{Timestamp: time.Now(), Overall: domain.VerdictHealthy}
	second := &domain.Snapshot{Timestamp: time.Now(), Overall: domain.VerdictDegraded}
	if err := s.Append(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err = s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Overall != domain.VerdictDegraded {
		t.Fatalf("latest should be the last appended, got %s", got.Overall)
	}
}

func TestAppStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	app := domain.App{Name: "chatbot", Path: "apps/chatbot", Complexity: "moderate"}
	if err := s.PutApp(ctx, &app); err != nil {
		t.Fatal(err)
	}

	// mutating the original must not leak into the store
	app.Complexity = "complex"

	got, err := s.GetApp(ctx, "chatbot")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Complexity != "moderate" {
		t.Fatalf("stored app leaked mutation: %+v", got)
	}

	if missing, _ := s.GetApp(ctx, "nope"); missing != nil {
		t.Fatal("unknown app should be nil")
	}

	all, err := s.ListApps(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("want 1 app, got %d", len(all))
	}
}

func TestTasksByApp(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, task := range []domain.Task{
		{ID: "1", App: "chatbot", Title: "a"},
		{ID: "2", App: "summarizer", Title: "b"},
		{ID: "3", App: "chatbot", Title: "c"},
	} {
		task := task
		if err := s.AddTask(ctx, &task); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.TasksByApp(ctx, "chatbot")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("tasks for chatbot: %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatal("AddTask should stamp CreatedAt")
	}
}

func TestAlertState(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec, err := s.GetAlert(ctx, "chatbot")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatal("unseen subject should have no record")
	}

	sent := time.Now().UTC()
	if err := s.SetAlert(ctx, "chatbot", domain.VerdictUnhealthy, sent); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.GetAlert(ctx, "chatbot")
	if rec.LastVerdict != domain.VerdictUnhealthy || rec.LastSentAt == nil || !rec.LastSentAt.Equal(sent) {
		t.Fatalf("record = %+v", rec)
	}

	// verdict update without a send keeps the old send time
	if err := s.SetAlert(ctx, "chatbot", domain.VerdictHealthy, time.Time{}); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.GetAlert(ctx, "chatbot")
	if rec.LastVerdict != domain.VerdictHealthy {
		t.Fatalf("verdict = %s", rec.LastVerdict)
	}
	if rec.LastSentAt == nil || !rec.LastSentAt.Equal(sent) {
		t.Fatalf("send time should survive verdict updates: %+v", rec)
	}
}
