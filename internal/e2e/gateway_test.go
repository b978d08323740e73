package e2e

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/briefly/internal/gateway"
	"github.com/dusk-indust/briefly/internal/source"
)

// Tool inputs mirror what the source fetchers send. Every field is optional
// so the inferred schemas accept partial argument sets.
type prListInput struct {
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	State  string `json:"state,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type issueListInput struct {
	Project  string   `json:"project,omitempty"`
	Assignee string   `json:"assignee,omitempty"`
	Status   []string `json:"status,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	UserID   string   `json:"user_id,omitempty"`
}

type pageInput struct {
	Title  string `json:"title,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type ghUser struct {
	Login string `json:"login"`
}

type ghPR struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	State    string `json:"state"`
	MergedAt string `json:"merged_at,omitempty"`
	User     ghUser `json:"user"`
}

type prListOutput struct {
	PullRequests []ghPR `json:"pull_requests"`
}

type jiraName struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type jiraFields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Status      *jiraName `json:"status,omitempty"`
	Priority    *jiraName `json:"priority,omitempty"`
	Assignee    *jiraName `json:"assignee,omitempty"`
}

type jiraIssue struct {
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

type issueListOutput struct {
	Issues []jiraIssue `json:"issues"`
}

type pageOutput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// fakeGateway is an in-memory MCP server exposing the three provider tools
// with fixed data. Setting failTool makes that tool return an error.
type fakeGateway struct {
	failTool string

	mu    sync.Mutex
	calls map[string]int
}

func (g *fakeGateway) record(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[name]++
	if name == g.failTool {
		return errors.New("authorization required")
	}
	return nil
}

// Calls returns how many times the named tool ran.
func (g *fakeGateway) Calls(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *fakeGateway) server() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "fake-gateway", Version: "test"}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: source.ToolListPullRequests, Description: "list pull requests"},
		func(_ context.Context, _ *mcp.CallToolRequest, _ prListInput) (*mcp.CallToolResult, prListOutput, error) {
			if err := g.record(source.ToolListPullRequests); err != nil {
				return nil, prListOutput{}, err
			}
			return nil, prListOutput{PullRequests: []ghPR{
				{Number: 42, Title: "Add summarizer endpoint", State: "closed", MergedAt: "2026-10-10T12:00:00Z", User: ghUser{Login: "matt"}},
				{Number: 57, Title: "Refactor auth middleware", State: "open", User: ghUser{Login: "sarah"}},
			}}, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: source.ToolListIssues, Description: "search issues"},
		func(_ context.Context, _ *mcp.CallToolRequest, _ issueListInput) (*mcp.CallToolResult, issueListOutput, error) {
			if err := g.record(source.ToolListIssues); err != nil {
				return nil, issueListOutput{}, err
			}
			return nil, issueListOutput{Issues: []jiraIssue{
				{Key: "BRF-101", Fields: jiraFields{
					Summary:     "Voice wake word bug",
					Description: "Wake word misfires in noisy rooms.",
					Status:      &jiraName{Name: "In Progress"},
					Priority:    &jiraName{Name: "High"},
					Assignee:    &jiraName{DisplayName: "Devon Li"},
				}},
				{Key: "BRF-77", Fields: jiraFields{
					Summary:     "Auth feature blocked",
					Description: "OAuth redirect mismatch",
					Status:      &jiraName{Name: "Blocked"},
				}},
			}}, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: source.ToolGetPageByTitle, Description: "read a notes page"},
		func(_ context.Context, _ *mcp.CallToolRequest, in pageInput) (*mcp.CallToolResult, pageOutput, error) {
			if err := g.record(source.ToolGetPageByTitle); err != nil {
				return nil, pageOutput{}, err
			}
			return nil, pageOutput{
				Title:   in.Title,
				Content: "Sarah flagged the OAuth redirect.\nRetro moved to Friday.",
			}, nil
		})

	return server
}

// connect starts the fake gateway and returns a client session to it.
func (g *fakeGateway) connect(t *testing.T) *gateway.Client {
	t.Helper()
	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := g.server().Connect(ctx, st, nil)
	require.NoError(t, err)

	client, err := gateway.Connect(ctx, ct, "me@example.com")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
