// Package mcp exposes the query engine over the Model Context Protocol.
// Four tools (list_directory, read_file, search_files, get_file_info)
// and one resource for the sandbox root. Every tool is read-only and
// every failure is returned as an error-flagged result; the protocol
// stream itself never breaks on a bad query.
package mcp

import (
	"context"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/scopefs/internal/config"
	"github.com/standardbeagle/scopefs/internal/query"
	"github.com/standardbeagle/scopefs/internal/version"
)

// Server wires the query engine to an MCP stdio server.
type Server struct {
	cfg              *config.Config
	engine           *query.Engine
	diagnosticLogger *DiagnosticLogger
	server           *mcp.Server
}

// NewServer creates an MCP server over the given engine. isMCP selects
// file-based diagnostic logging to keep stdio clean for the protocol.
func NewServer(engine *query.Engine, cfg *config.Config, isMCP bool) *Server {
	diagnosticLogger := NewDiagnosticLogger(isMCP)

	s := &Server{
		cfg:              cfg,
		engine:           engine,
		diagnosticLogger: diagnosticLogger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "scopefs",
		Version: version.Version,
	}, nil)

	s.registerTools()
	s.registerResources()

	diagnosticLogger.Printf("MCP server initialized, sandbox root: %s", engine.Root())

	return s
}

// registerTools registers the four filesystem tools with the server
func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "list_directory",
		Description: "List the immediate entries of a directory inside the sandbox. Returns name, type and size for each entry in filename order.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Directory path relative to the sandbox root. Empty or '.' lists the root.",
				},
			},
		},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleListDirectory)

	s.server.AddTool(&mcp.Tool{
		Name:        "read_file",
		Description: "Read the full content of a file inside the sandbox. Files larger than the configured limit are rejected without being read.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "File path relative to the sandbox root.",
				},
			},
			Required: []string{"path"},
		},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleReadFile)

	s.server.AddTool(&mcp.Tool{
		Name:        "search_files",
		Description: "Recursively search a directory for files whose name matches a wildcard pattern ('*' any run, '?' one character, case-insensitive). Returns root-relative paths with size and modification time, in traversal order.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"directory": {
					Type:        "string",
					Description: "Directory to search from, relative to the sandbox root. Empty or '.' searches the whole sandbox.",
				},
				"pattern": {
					Type:        "string",
					Description: "Filename pattern, e.g. '*.yaml' or 'config*'. Matches filenames only, never paths.",
				},
			},
			Required: []string{"pattern"},
		},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleSearchFiles)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_file_info",
		Description: "Get metadata for a file or directory: type, size, timestamps and permissions. Does not read content.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path relative to the sandbox root.",
				},
			},
			Required: []string{"path"},
		},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleGetFileInfo)
}

// recoverFromPanic provides panic recovery middleware for MCP operations
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Printf("PANIC RECOVERED in %s: %v", operation, r)
			s.diagnosticLogger.Printf("Stack trace: %s", debug.Stack())
			result, err = createErrorResponse(operation, panicError{operation: operation, value: r})
		}
	}()

	result, err = handler()
	if err != nil {
		s.diagnosticLogger.Printf("Error in %s: %v", operation, err)
		return createErrorResponse(operation, err)
	}

	return result, nil
}

// Start runs the server on stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Shutdown releases server resources.
func (s *Server) Shutdown() error {
	s.diagnosticLogger.Printf("Shutting down MCP server")
	return s.diagnosticLogger.Close()
}
