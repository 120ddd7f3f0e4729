package mcp

// In-process testing utilities: CallTool invokes a tool handler
// directly, bypassing the stdio transport. Fast, synchronous, and
// debuggable with plain stack traces.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallTool is a test helper that simulates an MCP tool call. An
// error-flagged result is converted into a Go error so tests can assert
// on failures directly.
func (s *Server) CallTool(toolName string, params map[string]interface{}) (string, error) {
	ctx := context.Background()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal params: %w", err)
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      toolName,
			Arguments: paramsJSON,
		},
	}

	var result *mcp.CallToolResult

	switch toolName {
	case "list_directory":
		result, err = s.handleListDirectory(ctx, req)
	case "read_file":
		result, err = s.handleReadFile(ctx, req)
	case "search_files":
		result, err = s.handleSearchFiles(ctx, req)
	case "get_file_info":
		result, err = s.handleGetFileInfo(ctx, req)
	default:
		return "", fmt.Errorf("unknown tool: %s", toolName)
	}

	if err != nil {
		return "", err
	}

	if result == nil || len(result.Content) == 0 {
		return "", nil
	}

	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return "", fmt.Errorf("unexpected content type %T", result.Content[0])
	}

	if result.IsError {
		var response map[string]interface{}
		if json.Unmarshal([]byte(textContent.Text), &response) == nil {
			if errorMsg, ok := response["error"].(string); ok {
				return "", fmt.Errorf("MCP error: %s", errorMsg)
			}
		}
		return "", fmt.Errorf("MCP error: %s", textContent.Text)
	}

	return textContent.Text, nil
}
