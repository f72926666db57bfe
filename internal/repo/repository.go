package repo

import (
	"context"

	"github.com/hamed0406/appsentry/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later. Method names are
// distinct across ports so one adapter can implement all of them.

type SnapshotStore interface {
	Append(ctx context.Context, s *domain.Snapshot) error
	// Latest returns nil, nil before the first cycle completes.
	Latest(ctx context.Context) (*domain.Snapshot, error)
}

type AppStore interface {
	PutApp(ctx context.Context, a *domain.App) error
	ListApps(ctx context.Context) ([]domain.App, error)
	// GetApp returns nil, nil when the app is unknown.
	GetApp(ctx context.Context, name string) (*domain.App, error)
}

type TaskStore interface {
	AddTask(ctx context.Context, t *domain.Task) error
	TasksByApp(ctx context.Context, app string) ([]domain.Task, error)
}

type DeploymentStore interface {
	AddDeployment(ctx context.Context, d *domain.Deployment) error
}
