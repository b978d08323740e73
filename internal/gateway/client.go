// Package gateway talks to the tool-execution gateway that fronts the
// external providers (code review, issue tracker, notes). The gateway speaks
// MCP; provider authorization happens on its side, per user.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// ToolCaller executes a named gateway tool and returns its JSON output.
// A nil RawMessage with a nil error means the tool produced no output.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}

// Compile-time interface check.
var _ ToolCaller = (*Client)(nil)

// ToolError is returned when the gateway reports a tool-level failure, for
// example an authorization that has not been granted yet.
type ToolError struct {
	Tool    string
	Message string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("gateway: tool %s failed: %s", e.Tool, e.Message)
}

// Client is a ToolCaller backed by an MCP client session.
type Client struct {
	session *mcp.ClientSession
	userID  string
}

// Dial connects to a gateway exposing the streamable HTTP transport.
func Dial(ctx context.Context, endpoint, userID string) (*Client, error) {
	return Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, userID)
}

// Connect establishes a session over an arbitrary MCP transport. Tests use
// this with in-memory transports.
func Connect(ctx context.Context, transport mcp.Transport, userID string) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "briefly",
		Version: version,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: connect: %w", err)
	}
	return &Client{session: session, userID: userID}, nil
}

// CallTool invokes a tool on behalf of the configured user. Structured
// output is preferred; otherwise the text content is returned, as-is when it
// is valid JSON and as a JSON string when it is not.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	params := make(map[string]any, len(args)+1)
	maps.Copy(params, args)
	if c.userID != "" {
		params["user_id"] = c.userID
	}

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: params,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", name, err)
	}
	if res.IsError {
		return nil, &ToolError{Tool: name, Message: textContent(res)}
	}

	if res.StructuredContent != nil {
		raw, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("gateway: %s: encode structured content: %w", name, err)
		}
		return raw, nil
	}

	text := strings.TrimSpace(textContent(res))
	if text == "" {
		return nil, nil
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}
	raw, err := json.Marshal(text)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: encode text content: %w", name, err)
	}
	return raw, nil
}

// Close ends the MCP session.
func (c *Client) Close() error {
	return c.session.Close()
}

// textContent concatenates all text parts of a tool result.
func textContent(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
