package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// FetchInput is the input schema for the fetch_document tool.
type FetchInput struct {
	Document string `json:"document" jsonschema:"document id or document URL to fetch"`
	Format   string `json:"format,omitempty" jsonschema:"output format: text, markdown, or html (default markdown)"`
}

// FetchOutput is the output schema for the fetch_document tool.
type FetchOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Format     string `json:"format"`
	TokenKind  string `json:"token_kind"`
	BlockCount int    `json:"block_count"`
}

// AuthStatusOutput is the output schema for the auth_status tool.
type AuthStatusOutput struct {
	Authorized  bool   `json:"authorized"`
	Expired     bool   `json:"expired,omitempty"`
	Refreshable bool   `json:"refreshable,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	Region      string `json:"region,omitempty"`
	UserName    string `json:"user_name,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch_document",
		Description: "Fetch a cloud document and render it as text, Markdown, or HTML",
	}, s.handleFetch)

	if s.ports.Auth != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "auth_status",
			Description: "Report whether a user authorization is active",
		}, s.handleAuthStatus)
	}
}

// handleFetch handles the fetch_document tool invocation.
func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	format := domain.FormatMarkdown
	if input.Format != "" {
		parsed, err := domain.ParseOutputFormat(input.Format)
		if err != nil {
			return nil, FetchOutput{}, err
		}
		format = parsed
	}

	result, err := s.ports.Fetch.Fetch(ctx, input.Document, format)
	if err != nil {
		return nil, FetchOutput{}, err
	}

	return nil, FetchOutput{
		DocumentID: result.DocumentID,
		Title:      result.Title,
		Content:    result.Content,
		Format:     string(result.Format),
		TokenKind:  string(result.TokenKind),
		BlockCount: result.BlockCount,
	}, nil
}

// handleAuthStatus handles the auth_status tool invocation.
func (s *Server) handleAuthStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AuthStatusOutput, error) {
	status, err := s.ports.Auth.Status(ctx)
	if err != nil {
		return nil, AuthStatusOutput{}, err
	}

	out := AuthStatusOutput{
		Authorized:  status.Authorized,
		Expired:     status.Expired,
		Refreshable: status.Refreshable,
		Region:      string(status.Region),
	}
	if status.Authorized {
		out.ExpiresAt = status.ExpiresAt.Format(time.RFC3339)
	}
	if status.User != nil {
		out.UserName = status.User.Name
	}
	return nil, out, nil
}
