package server

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MCPHandler exposes the same three tools over the MCP streamable HTTP
// transport. Results are the tool payloads as JSON text; like the plain HTTP
// surface, extraction failures are structured results, not protocol errors.
func (s *Server) MCPHandler(basePath string) http.Handler {
	mcpServer := mcpserver.NewMCPServer(s.name, "1.0.0")

	mcpServer.AddTool(mcp.Tool{
		Name:        "fetch_youtube_transcript",
		Description: "Fetch the transcript of a YouTube video with fallback strategies",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"video_url": map[string]any{
					"type":        "string",
					"description": "YouTube video URL or 11-character video ID",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Preferred transcript language code",
					"default":     "en",
				},
			},
			Required: []string{"video_url"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		videoURL, err := request.RequireString("video_url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		language := request.GetString("language", "en")
		return mcp.NewToolResultText(string(s.fetchTranscript(ctx, videoURL, language))), nil
	})

	mcpServer.AddTool(mcp.Tool{
		Name:        "get_video_metadata",
		Description: "Get metadata for a YouTube video (title, channel, duration, views)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"video_url": map[string]any{
					"type":        "string",
					"description": "YouTube video URL or 11-character video ID",
				},
			},
			Required: []string{"video_url"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		videoURL, err := request.RequireString("video_url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(s.fetchMetadata(ctx, videoURL))), nil
	})

	mcpServer.AddTool(mcp.Tool{
		Name:        "check_transcript_availability",
		Description: "Check which transcript languages are available for a YouTube video",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"video_url": map[string]any{
					"type":        "string",
					"description": "YouTube video URL or 11-character video ID",
				},
			},
			Required: []string{"video_url"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		videoURL, err := request.RequireString("video_url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(s.checkAvailability(ctx, videoURL))), nil
	})

	return mcpserver.NewStreamableHTTPServer(mcpServer,
		mcpserver.WithEndpointPath(basePath),
	)
}
