package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Issue is the slice of the GitHub issue response we care about.
type Issue struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// GitHub creates issues in one repository. Implements the Issuer
// capability consumed by the follow-up task integrator.
type GitHub struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // overridden in tests
	Client  *http.Client
}

func NewGitHub(token, owner, repo string) *GitHub {
	if token == "" || owner == "" || repo == "" {
		return nil
	}
	return &GitHub{
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		BaseURL: "https://api.github.com",
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type issueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

func (g *GitHub) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	if g == nil {
		return nil, fmt.Errorf("github disabled")
	}
	payload, err := json.Marshal(issueRequest{Title: title, Body: body, Labels: labels})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues", g.BaseURL, g.Owner, g.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github create issue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("github: status %d: %s", resp.StatusCode, string(b))
	}

	var issue Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("github: decode response: %w", err)
	}
	return &issue, nil
}
