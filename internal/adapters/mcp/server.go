package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"contextlab/internal/core/ports"
)

// Server exposes the heuristic helpers as MCP tools so editor agents can
// pick prompt strategies without calling the model provider.
type Server struct {
	advisor ports.Advisor
	mcp     *server.MCPServer
}

func NewServer(advisor ports.Advisor, version string) *Server {
	s := &Server{
		advisor: advisor,
		mcp:     server.NewMCPServer("contextlab", version),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	predictTool := mcp.NewTool("predict_strategy",
		mcp.WithDescription("Predict the cheapest prompt strategy that can handle a review sentence."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The review sentence to analyze."),
		),
	)
	s.mcp.AddTool(predictTool, s.handlePredict)

	classifyTool := mcp.NewTool("classify_task",
		mcp.WithDescription("Classify an instruction prompt into a task type with recommended strategies."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The instruction prompt to classify."),
		),
	)
	s.mcp.AddTool(classifyTool, s.handleClassify)

	scoreTool := mcp.NewTool("score_extraction",
		mcp.WithDescription("Score raw model output against the sentiment/product/issue extraction schema."),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("The raw model reply to score."),
		),
	)
	s.mcp.AddTool(scoreTool, s.handleScore)
}

func (s *Server) handlePredict(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prediction := s.advisor.PredictStrategy(text)
	return toolResultJSON(prediction)
}

func (s *Server) handleClassify(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recommendation := s.advisor.ClassifyTask(prompt)
	return toolResultJSON(recommendation)
}

func (s *Server) handleScore(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := req.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	points, extraction, reason := s.advisor.ScoreOutput(output)
	return toolResultJSON(map[string]any{
		"score":      points,
		"extraction": extraction,
		"reason":     reason,
	})
}

func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio blocks serving the MCP protocol over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
