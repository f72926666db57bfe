package domain

import "time"

// App is the metadata discovery collects for one application directory.
type App struct {
	Name            string            `json:"name"`
	Path            string            `json:"path"`
	Frameworks      []string          `json:"frameworks"`
	Dependencies    map[string]string `json:"dependencies"`
	Complexity      string            `json:"estimated_complexity"`
	HasTests        bool              `json:"has_tests"`
	HasDocker       bool              `json:"has_docker"`
	BaseURL         string            `json:"base_url,omitempty"`
	HealthEndpoints []string          `json:"health_endpoints,omitempty"`
}

// Task is a deployment follow-up work item.
type Task struct {
	ID             string     `json:"task_id"`
	App            string     `json:"app_name"`
	DeploymentID   string     `json:"deployment_id,omitempty"`
	Environment    string     `json:"environment"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Priority       string     `json:"priority"`
	EstimatedHours int        `json:"estimated_hours"`
	Assignee       string     `json:"assignee"`
	DueDate        time.Time  `json:"due_date"`
	IssueNumber    int        `json:"github_issue_number,omitempty"`
	IssueURL       string     `json:"github_issue_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Deployment is one recorded deployment of an application.
type Deployment struct {
	ID          string    `json:"deployment_id"`
	App         string    `json:"app_name"`
	Environment string    `json:"environment"`
	Version     string    `json:"version,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
