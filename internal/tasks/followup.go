// Package tasks creates the mandatory follow-up work items after a
// deployment and dispatches them to the issue tracker and chat.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/notify"
	"github.com/hamed0406/appsentry/internal/repo"
)

// Issuer is the issue-tracker capability the integrator needs.
// *notify.GitHub satisfies it.
type Issuer interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (*notify.Issue, error)
}

type Integrator struct {
	Logger   *zap.Logger
	Issuer   Issuer
	Notifier notify.Notifier
	Store    repo.TaskStore
	Now      func() time.Time
}

func NewIntegrator(logger *zap.Logger, issuer Issuer, notifier notify.Notifier, store repo.TaskStore) *Integrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	// NewGitHub returns a typed nil when unconfigured; treat it as no
	// issuer at all so the tasks are still created without issue links.
	if g, ok := issuer.(*notify.GitHub); ok && g == nil {
		issuer = nil
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Integrator{
		Logger:   logger,
		Issuer:   issuer,
		Notifier: notifier,
		Store:    store,
		Now:      time.Now,
	}
}

type template struct {
	title          string
	description    string
	category       string
	priority       string
	estimatedHours int
	assignee       string
	dueIn          time.Duration
}

var followupTemplates = []template{
	{
		title:          "Performance Monitoring Setup - %s",
		description:    "Set up comprehensive performance monitoring for the deployed application",
		category:       "performance_monitoring",
		priority:       "high",
		estimatedHours: 2,
		assignee:       "devops-team",
		dueIn:          24 * time.Hour,
	},
	{
		title:          "Security Validation - %s",
		description:    "Perform post-deployment security validation and penetration testing",
		category:       "security_validation",
		priority:       "critical",
		estimatedHours: 4,
		assignee:       "security-team",
		dueIn:          48 * time.Hour,
	},
	{
		title:          "Documentation Updates - %s",
		description:    "Update deployment documentation and runbooks",
		category:       "documentation",
		priority:       "medium",
		estimatedHours: 1,
		assignee:       "tech-writer",
		dueIn:          72 * time.Hour,
	},
	{
		title:          "User Acceptance Testing - %s",
		description:    "Coordinate user acceptance testing for the deployed features",
		category:       "testing",
		priority:       "high",
		estimatedHours: 8,
		assignee:       "qa-team",
		dueIn:          120 * time.Hour,
	},
	{
		title:          "Performance Optimization Review - %s",
		description:    "Analyze performance metrics and identify optimization opportunities",
		category:       "optimization",
		priority:       "medium",
		estimatedHours: 3,
		assignee:       "performance-team",
		dueIn:          7 * 24 * time.Hour,
	},
}

// CreateFollowups builds the mandatory follow-up tasks for a
// deployment, files an issue per task and pings chat. A task whose
// issue cannot be created is logged and skipped; the rest still go
// through.
func (i *Integrator) CreateFollowups(ctx context.Context, dep domain.Deployment) ([]domain.Task, error) {
	now := i.Now().UTC()
	created := make([]domain.Task, 0, len(followupTemplates))

	for _, tpl := range followupTemplates {
		task := domain.Task{
			ID:             uuid.NewString(),
			App:            dep.App,
			DeploymentID:   dep.ID,
			Environment:    dep.Environment,
			Title:          fmt.Sprintf(tpl.title, dep.App),
			Description:    tpl.description,
			Category:       tpl.category,
			Priority:       tpl.priority,
			EstimatedHours: tpl.estimatedHours,
			Assignee:       tpl.assignee,
			DueDate:        now.Add(tpl.dueIn),
			CreatedAt:      now,
		}

		if i.Issuer != nil {
			issue, err := i.Issuer.CreateIssue(ctx, task.Title, issueBody(task), []string{"follow-up", task.Category})
			if err != nil {
				i.Logger.Error("issue_create_failed",
					zap.String("task", task.Title),
					zap.Error(err),
				)
				continue
			}
			task.IssueNumber = issue.Number
			task.IssueURL = issue.HTMLURL
		}

		if i.Store != nil {
			if err := i.Store.AddTask(ctx, &task); err != nil {
				i.Logger.Warn("task_store_error", zap.String("task", task.ID), zap.Error(err))
			}
		}

		// best-effort chat ping
		_ = i.Notifier.Send(ctx, "🔄 New Follow-up Task Created", taskSummary(task))

		created = append(created, task)
	}

	i.Logger.Info("followups_created",
		zap.String("app", dep.App),
		zap.Int("count", len(created)),
	)
	return created, nil
}

func issueBody(t domain.Task) string {
	return fmt.Sprintf(`## Task Details
- **Category**: %s
- **Priority**: %s
- **Estimated Hours**: %d
- **Assignee**: %s
- **Due Date**: %s
- **Application**: %s
- **Environment**: %s

## Description
%s

## Acceptance Criteria
- [ ] Task completed according to specification
- [ ] Documentation updated if required
- [ ] Follow-up tasks created if necessary
- [ ] Stakeholders notified of completion

---
*Auto-generated follow-up task from deployment %s*
`,
		t.Category, t.Priority, t.EstimatedHours, t.Assignee,
		t.DueDate.Format("2006-01-02 15:04:05"), t.App, t.Environment,
		t.Description, t.DeploymentID,
	)
}

func taskSummary(t domain.Task) string {
	return fmt.Sprintf("Application: %s\nPriority: %s\nAssignee: %s\nDue: %s\nTask: %s",
		t.App, t.Priority, t.Assignee, t.DueDate.Format(time.RFC3339), t.Title)
}
