package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewBriefingMCPServer creates an MCP server with prep_briefing and
// classify_request registered.
func NewBriefingMCPServer(svc *BriefingService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "briefly",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "prep_briefing",
		Description: "Prepare a short spoken briefing before a meeting. Routes the request to pull requests, issue-tracker status and meeting notes as needed, then summarizes them. Returns the summary, the routing decision and per-step status.",
	}, svc.PrepBriefing)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_request",
		Description: "Decide which data sources (code_review, issues, notes) a briefing request needs, without fetching anything.",
	}, svc.ClassifyRequest)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP on addr.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
