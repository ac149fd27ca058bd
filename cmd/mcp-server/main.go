// Command mcp-server exposes the intersection finder as MCP tools so agent
// frameworks can call it.
//
// Usage:
//
//	mcp-server            # stdio transport
//	mcp-server -port 8080 # SSE transport on the given port
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	gointersect "github.com/njchilds90/gointersect"
)

const version = "1.0.0"

func main() {
	port := flag.Int("port", 0, "serve over SSE on this port instead of stdio")
	flag.Parse()

	s := server.NewMCPServer("gointersect-mcp", version)
	registerTools(s)

	if *port > 0 {
		addr := fmt.Sprintf(":%d", *port)
		sse := server.NewSSEServer(s, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", *port)))
		slog.Info("gointersect MCP server listening (SSE)", "address", addr)
		if err := sse.Start(addr); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := server.ServeStdio(s); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func registerTools(s *server.MCPServer) {
	scanTool := mcp.NewTool("scan",
		mcp.WithDescription("Scan [xmin, xmax] for points where f1(x) = f2(x). Functions are expressions in x, e.g. \"x^10\" or \"exp(x)\"."),
		mcp.WithString("f1", mcp.Required(), mcp.Description("first function, an expression in x")),
		mcp.WithString("f2", mcp.Required(), mcp.Description("second function, an expression in x")),
		mcp.WithNumber("xmin", mcp.Required(), mcp.Description("lower bound of the search domain")),
		mcp.WithNumber("xmax", mcp.Required(), mcp.Description("upper bound of the search domain")),
		mcp.WithNumber("num_points", mcp.Description("number of sample points (default 1000)")),
		mcp.WithNumber("tol", mcp.Description("tolerance for convergence and dedup (default 1e-6)")),
	)
	s.AddTool(scanTool, callThrough("scan"))

	convergeTool := mcp.NewTool("converge",
		mcp.WithDescription("Refine each initial guess to a point where f1(x) = f2(x). Guesses that fail to converge are skipped."),
		mcp.WithString("f1", mcp.Required(), mcp.Description("first function, an expression in x")),
		mcp.WithString("f2", mcp.Required(), mcp.Description("second function, an expression in x")),
		mcp.WithArray("guesses", mcp.Required(), mcp.Description("initial guesses, an array of numbers")),
		mcp.WithNumber("tol", mcp.Description("tolerance for convergence and dedup (default 1e-6)")),
	)
	s.AddTool(convergeTool, callThrough("converge"))
}

// callThrough adapts one kernel tool to an MCP handler.
func callThrough(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := gointersect.HandleToolCall(gointersect.ToolRequest{
			Tool:   tool,
			Params: request.GetArguments(),
		})
		if resp.Error != "" {
			return mcp.NewToolResultError(resp.Error), nil
		}
		b, err := json.Marshal(map[string]interface{}{
			"intersections": resp.Result,
			"summary":       resp.String,
		})
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}
