package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/scopefs/pkg/pathutil"
)

const rootResourceScheme = "file://"

// registerResources exposes the sandbox root as a single MCP resource.
// Reading file://<root>/<path> delegates to the same read path as the
// read_file tool, so the size limit and path confinement apply here too.
func (s *Server) registerResources() {
	rootURI := rootResourceScheme + s.engine.Root()

	s.server.AddResource(&mcp.Resource{
		URI:         rootURI,
		Name:        "sandbox-root",
		Description: "Files under the sandbox root directory. Append a relative path to the URI to read a specific file.",
		MIMEType:    "text/plain",
	}, s.handleReadResource)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	rel, err := s.resourceRelPath(uri)
	if err != nil {
		s.diagnosticLogger.Printf("resource read rejected: %v", err)
		return nil, err
	}

	content, err := s.engine.ReadFile(ctx, rel)
	if err != nil {
		s.diagnosticLogger.Printf("resource read failed for %q: %v", uri, err)
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     content.Content,
			},
		},
	}, nil
}

// resourceRelPath extracts the root-relative path from a resource URI.
// Only URIs under the sandbox root are accepted.
func (s *Server) resourceRelPath(uri string) (string, error) {
	abs, ok := strings.CutPrefix(uri, rootResourceScheme)
	if !ok {
		return "", fmt.Errorf("unknown resource %q", uri)
	}

	rel := pathutil.ToSlashRelative(abs, s.engine.Root())
	if rel == "" {
		if abs == s.engine.Root() {
			return "", fmt.Errorf("resource %q is a directory; append a file path", uri)
		}
		return "", fmt.Errorf("resource %q names no file", uri)
	}
	if filepath.IsAbs(rel) {
		// ToSlashRelative keeps paths outside the root absolute.
		return "", fmt.Errorf("unknown resource %q", uri)
	}
	return rel, nil
}
