package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/scopefs/internal/query"
)

type ListDirectoryParams struct {
	Path string `json:"path,omitempty"`
}

type ReadFileParams struct {
	Path string `json:"path"`
}

type SearchFilesParams struct {
	Directory string `json:"directory,omitempty"`
	Pattern   string `json:"pattern"`
}

type GetFileInfoParams struct {
	Path string `json:"path"`
}

// panicError wraps a recovered panic value so it can travel through the
// normal error-response path.
type panicError struct {
	operation string
	value     interface{}
}

func (e panicError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.operation, e.value)
}

func (s *Server) handleListDirectory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(query.OpList, func() (*mcp.CallToolResult, error) {
		var params ListDirectoryParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		listing, err := s.engine.List(ctx, params.Path)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(listing)
	})
}

func (s *Server) handleReadFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(query.OpRead, func() (*mcp.CallToolResult, error) {
		var params ReadFileParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if params.Path == "" {
			return nil, errors.New("path is required")
		}

		content, err := s.engine.ReadFile(ctx, params.Path)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(content)
	})
}

func (s *Server) handleSearchFiles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(query.OpSearch, func() (*mcp.CallToolResult, error) {
		var params SearchFilesParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if params.Pattern == "" {
			return nil, errors.New("pattern is required")
		}

		report, err := s.engine.Search(ctx, params.Directory, params.Pattern)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(report)
	})
}

func (s *Server) handleGetFileInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(query.OpStat, func() (*mcp.CallToolResult, error) {
		var params GetFileInfoParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if params.Path == "" {
			return nil, errors.New("path is required")
		}

		info, err := s.engine.Stat(ctx, params.Path)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(info)
	})
}

func unmarshalParams(req *mcp.CallToolRequest, out interface{}) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, out); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
