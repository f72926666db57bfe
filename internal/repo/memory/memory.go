package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/repo"
)

var (
	_ repo.SnapshotStore   = (*Store)(nil)
	_ repo.AppStore        = (*Store)(nil)
	_ repo.TaskStore       = (*Store)(nil)
	_ repo.DeploymentStore = (*Store)(nil)
	_ repo.AlertStore      = (*Store)(nil)
)

// Store is the in-memory adapter for every port. Used when no
// DATABASE_URL is configured and in tests.
type Store struct {
	mu          sync.RWMutex
	snapshots   []*domain.Snapshot
	apps        map[string]*domain.App
	tasks       []*domain.Task
	deployments []*domain.Deployment
	alerts      map[string]*repo.AlertRecord
}

func New() *Store {
	return &Store{
		apps:   make(map[string]*domain.App),
		alerts: make(map[string]*repo.AlertRecord),
	}
}

// ---- SnapshotStore ----

func (m *Store) Append(ctx context.Context, s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}

// ---- AppStore ----

func (m *Store) PutApp(ctx context.Context, a *domain.App) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.apps[a.Name] = &cp
	return nil
}

func (m *Store) ListApps(ctx context.Context) ([]domain.App, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.App, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (m *Store) GetApp(ctx context.Context, name string) (*domain.App, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := m.apps[name]
	if a == nil {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// ---- TaskStore ----

func (m *Store) AddTask(ctx context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	cp := *t
	m.tasks = append(m.tasks, &cp)
	return nil
}

func (m *Store) TasksByApp(ctx context.Context, app string) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.App == app {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ---- DeploymentStore ----

func (m *Store) AddDeployment(ctx context.Context, d *domain.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	cp := *d
	m.deployments = append(m.deployments, &cp)
	return nil
}

// ---- AlertStore ----

func (m *Store) GetAlert(ctx context.Context, subject string) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.alerts[subject]
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *Store) SetAlert(ctx context.Context, subject string, v domain.Verdict, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &repo.AlertRecord{Subject: subject, LastVerdict: v}
	if !sentAt.IsZero() {
		rec.LastSentAt = &sentAt
	} else if prev := m.alerts[subject]; prev != nil {
		rec.LastSentAt = prev.LastSentAt
	}
	m.alerts[subject] = rec
	return nil
}
