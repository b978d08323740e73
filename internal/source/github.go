package source

import (
	"context"
	"fmt"

	"github.com/dusk-indust/briefly/internal/gateway"
)

// ToolListPullRequests is the gateway tool that lists pull requests.
const ToolListPullRequests = "Github.ListPullRequests"

// Compile-time interface check.
var _ CodeReviewFetcher = (*GitHubFetcher)(nil)

// GitHubFetcher lists pull requests through the tool gateway.
type GitHubFetcher struct {
	caller gateway.ToolCaller
}

// NewGitHubFetcher creates a GitHubFetcher that calls tools via caller.
func NewGitHubFetcher(caller gateway.ToolCaller) *GitHubFetcher {
	return &GitHubFetcher{caller: caller}
}

type githubUser struct {
	Login string `json:"login"`
}

type githubPR struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	MergedAt  *string    `json:"merged_at"`
	User      githubUser `json:"user"`
	HTMLURL   string     `json:"html_url"`
	URL       string     `json:"url"`
	UpdatedAt string     `json:"updated_at"`
}

// Fetch lists pull requests for p.Owner/p.Repo.
func (f *GitHubFetcher) Fetch(ctx context.Context, p CodeReviewParams) (*CodeReviewResult, error) {
	if p.Owner == "" || p.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}
	state := p.State
	if state == "" {
		state = "open"
	}

	raw, err := f.caller.CallTool(ctx, ToolListPullRequests, map[string]any{
		"owner": p.Owner,
		"repo":  p.Repo,
		"state": state,
	})
	if err != nil {
		return nil, fmt.Errorf("github: list pull requests %s/%s: %w", p.Owner, p.Repo, err)
	}

	prs, err := decodeList[githubPR](raw, "pull_requests")
	if err != nil {
		return nil, fmt.Errorf("github: decode pull requests: %w", err)
	}

	result := &CodeReviewResult{PullRequests: make([]PullRequest, 0, len(prs))}
	for _, pr := range prs {
		result.PullRequests = append(result.PullRequests, normalizePR(pr))
	}
	return result, nil
}

func normalizePR(pr githubPR) PullRequest {
	state := pr.State
	if pr.MergedAt != nil && *pr.MergedAt != "" {
		state = "merged"
	}
	url := pr.HTMLURL
	if url == "" {
		url = pr.URL
	}
	return PullRequest{
		Number:    pr.Number,
		Title:     pr.Title,
		State:     state,
		Author:    pr.User.Login,
		URL:       url,
		UpdatedAt: pr.UpdatedAt,
	}
}
