package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/repo"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// ---- TaskStore ----

func (s *Store) AddTask(ctx context.Context, t *domain.Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (task_id, app_name, title, description, category, priority, assignee, github_issue_number, created_at, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, 0), $9, $10)`,
		t.ID, t.App, t.Title, t.Description, t.Category, t.Priority, t.Assignee, t.IssueNumber, t.CreatedAt, t.DueDate,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) TasksByApp(ctx context.Context, app string) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT task_id, app_name, title, description, category, priority, assignee,
		        COALESCE(github_issue_number, 0), created_at, due_date
		 FROM tasks WHERE app_name = $1 ORDER BY created_at`,
		app,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.App, &t.Title, &t.Description, &t.Category,
			&t.Priority, &t.Assignee, &t.IssueNumber, &t.CreatedAt, &t.DueDate); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- DeploymentStore ----

func (s *Store) AddDeployment(ctx context.Context, d *domain.Deployment) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO deployments (deployment_id, app_name, environment, version, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.App, d.Environment, d.Version, d.Status, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

// ---- AlertStore ----

func (s *Store) GetAlert(ctx context.Context, subject string) (*repo.AlertRecord, error) {
	rec := &repo.AlertRecord{Subject: subject}
	var verdict string
	var sentAt *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT last_verdict, last_sent_at FROM alert_state WHERE subject = $1`,
		subject,
	).Scan(&verdict, &sentAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert state: %w", err)
	}
	rec.LastVerdict = domain.Verdict(verdict)
	rec.LastSentAt = sentAt
	return rec, nil
}

func (s *Store) SetAlert(ctx context.Context, subject string, v domain.Verdict, sentAt time.Time) error {
	var sent *time.Time
	if !sentAt.IsZero() {
		sent = &sentAt
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alert_state (subject, last_verdict, last_sent_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subject) DO UPDATE
		 SET last_verdict = EXCLUDED.last_verdict,
		     last_sent_at = COALESCE(EXCLUDED.last_sent_at, alert_state.last_sent_at)`,
		subject, string(v), sent,
	)
	if err != nil {
		return fmt.Errorf("set alert state: %w", err)
	}
	return nil
}
