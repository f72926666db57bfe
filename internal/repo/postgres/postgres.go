package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/repo"
)

var (
	_ repo.SnapshotStore   = (*Store)(nil)
	_ repo.TaskStore       = (*Store)(nil)
	_ repo.DeploymentStore = (*Store)(nil)
	_ repo.AlertStore      = (*Store)(nil)
)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	s := &Store{pool: pool, log: log}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id SERIAL PRIMARY KEY,
			task_id VARCHAR(255) UNIQUE NOT NULL,
			app_name VARCHAR(255) NOT NULL,
			title VARCHAR(500) NOT NULL,
			description TEXT,
			category VARCHAR(100),
			priority VARCHAR(20),
			status VARCHAR(20) DEFAULT 'open',
			assignee VARCHAR(100),
			github_issue_number INTEGER,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			due_date TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS deployments (
			id SERIAL PRIMARY KEY,
			deployment_id VARCHAR(255) UNIQUE NOT NULL,
			app_name VARCHAR(255) NOT NULL,
			environment VARCHAR(50) NOT NULL,
			version VARCHAR(100),
			status VARCHAR(50),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS health_checks (
			id SERIAL PRIMARY KEY,
			app_name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL,
			response_time_ms INTEGER,
			error_message TEXT,
			checked_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id SERIAL PRIMARY KEY,
			taken_at TIMESTAMPTZ NOT NULL,
			overall_status VARCHAR(20) NOT NULL,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alert_state (
			subject VARCHAR(255) PRIMARY KEY,
			last_verdict VARCHAR(20) NOT NULL,
			last_sent_at TIMESTAMPTZ
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ---- SnapshotStore ----

// Append stores the full snapshot as JSONB plus one health_checks row
// per subject for flat querying.
func (s *Store) Append(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (taken_at, overall_status, data) VALUES ($1, $2, $3)`,
		snap.Timestamp, string(snap.Overall), data,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for subject, b := range snap.Batches {
		var avgMS int
		var errMsg string
		if n := len(b.Outcomes); n > 0 {
			var total time.Duration
			for _, o := range b.Outcomes {
				total += o.Latency
				if errMsg == "" && o.Status.Failing() {
					errMsg = o.ProbeName + ": " + o.Detail
				}
			}
			avgMS = int(total.Milliseconds()) / n
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO health_checks (app_name, status, response_time_ms, error_message, checked_at)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
			subject, string(b.Verdict), avgMS, errMsg, b.Timestamp,
		); err != nil {
			return fmt.Errorf("insert health check: %w", err)
		}
	}
	return nil
}

func (s *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
