package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dusk-indust/briefly/internal/gateway"
)

// ToolListIssues is the gateway tool that searches the issue tracker.
const ToolListIssues = "Jira.ListIssues"

// Compile-time interface check.
var _ IssueFetcher = (*JiraFetcher)(nil)

// JiraFetcher searches issues through the tool gateway and flattens the
// nested tracker records.
type JiraFetcher struct {
	caller gateway.ToolCaller
}

// NewJiraFetcher creates a JiraFetcher that calls tools via caller.
func NewJiraFetcher(caller gateway.ToolCaller) *JiraFetcher {
	return &JiraFetcher{caller: caller}
}

type jiraNamed struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type jiraParent struct {
	Key string `json:"key"`
}

type jiraFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"`
	Status      *jiraNamed      `json:"status"`
	Priority    *jiraNamed      `json:"priority"`
	Assignee    *jiraNamed      `json:"assignee"`
	Parent      *jiraParent     `json:"parent"`
	Created     string          `json:"created"`
}

type jiraIssue struct {
	Key    string     `json:"key"`
	Self   string     `json:"self"`
	Fields jiraFields `json:"fields"`
}

// Fetch searches the tracker with the given filters.
func (f *JiraFetcher) Fetch(ctx context.Context, p IssueParams) (*IssueResult, error) {
	args := map[string]any{}
	if p.Project != "" {
		args["project"] = p.Project
	}
	if p.Assignee != "" {
		args["assignee"] = p.Assignee
	}
	if len(p.Statuses) > 0 {
		args["status"] = p.Statuses
	}
	if p.Limit > 0 {
		args["limit"] = p.Limit
	}

	raw, err := f.caller.CallTool(ctx, ToolListIssues, args)
	if err != nil {
		return nil, fmt.Errorf("jira: list issues: %w", err)
	}

	issues, err := decodeList[jiraIssue](raw, "issues")
	if err != nil {
		return nil, fmt.Errorf("jira: decode issues: %w", err)
	}

	result := &IssueResult{Issues: make([]Issue, 0, len(issues))}
	for _, is := range issues {
		result.Issues = append(result.Issues, flattenIssue(is))
	}
	return result, nil
}

// flattenIssue maps the nested tracker record onto the flat Issue shape.
func flattenIssue(is jiraIssue) Issue {
	out := Issue{
		Key:         is.Key,
		Title:       is.Fields.Summary,
		Description: descriptionText(is.Fields.Description),
		CreatedAt:   is.Fields.Created,
		URL:         browseURL(is.Self, is.Key),
	}
	if is.Fields.Status != nil {
		out.Status = is.Fields.Status.Name
	}
	if is.Fields.Priority != nil {
		out.Priority = is.Fields.Priority.Name
	}
	if is.Fields.Assignee != nil {
		out.Assignee = is.Fields.Assignee.DisplayName
		if out.Assignee == "" {
			out.Assignee = is.Fields.Assignee.Name
		}
	}
	if is.Fields.Parent != nil {
		out.Parent = is.Fields.Parent.Key
	}
	return out
}

// browseURL turns the REST self link into the human browse link.
func browseURL(self, key string) string {
	if self == "" || key == "" {
		return ""
	}
	u, err := url.Parse(self)
	if err != nil || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/browse/%s", u.Scheme, u.Host, key)
}

// adfNode is the subset of the rich-text document format the tracker uses
// for descriptions.
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

// descriptionText accepts either a plain string or a rich-text document and
// returns its text with block boundaries collapsed to single spaces.
func descriptionText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	var words []string
	collectText(doc, &words)
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

func collectText(n adfNode, out *[]string) {
	if n.Text != "" {
		*out = append(*out, n.Text)
	}
	for _, c := range n.Content {
		collectText(c, out)
	}
}
