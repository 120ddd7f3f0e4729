package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/scopefs/internal/config"
	"github.com/standardbeagle/scopefs/internal/query"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestServer builds a server over a small sandbox:
//
//	hello.txt
//	big.bin (over the read limit)
//	docs/
//	  guide.md
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	write("hello.txt", "hello")
	write("big.bin", strings.Repeat("x", 33))
	write("docs/guide.md", "# guide")

	cfg := config.DefaultConfig()
	cfg.Sandbox.Root = root
	cfg.Sandbox.MaxFileSize = 32
	cfg.Search.Concurrency = 2

	engine, err := query.NewEngine(cfg)
	require.NoError(t, err)

	s := NewServer(engine, cfg, false)
	s.diagnosticLogger = NoOpLogger
	// Return the resolved root so file:// URIs in tests match the
	// resource registration even when the temp dir is a symlink.
	return s, engine.Root()
}

func TestListDirectoryTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, err := s.CallTool("list_directory", map[string]interface{}{"path": ""})
	require.NoError(t, err)

	var listing query.DirListing
	require.NoError(t, json.Unmarshal([]byte(text), &listing))
	assert.Equal(t, ".", listing.Path)
	require.Len(t, listing.Items, 3)
	assert.Equal(t, "big.bin", listing.Items[0].Name)
	assert.Equal(t, "docs", listing.Items[1].Name)
	assert.Equal(t, query.KindDirectory, listing.Items[1].Type)
	assert.Equal(t, "hello.txt", listing.Items[2].Name)
}

func TestReadFileTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, err := s.CallTool("read_file", map[string]interface{}{"path": "docs/guide.md"})
	require.NoError(t, err)

	var content query.FileContent
	require.NoError(t, json.Unmarshal([]byte(text), &content))
	assert.Equal(t, "docs/guide.md", content.Path)
	assert.Equal(t, "# guide", content.Content)
}

func TestReadFileToolRejectsOversized(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.CallTool("read_file", map[string]interface{}{"path": "big.bin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestReadFileToolRequiresPath(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.CallTool("read_file", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestSearchFilesTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, err := s.CallTool("search_files", map[string]interface{}{"pattern": "*.md"})
	require.NoError(t, err)

	var report query.SearchReport
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	require.Len(t, report.Found, 1)
	assert.Equal(t, "docs/guide.md", report.Found[0].RelativePath)
	assert.Equal(t, int64(len("# guide")), report.Found[0].SizeBytes)
}

func TestSearchFilesToolRequiresPattern(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.CallTool("search_files", map[string]interface{}{"path": "docs"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern is required")
}

func TestGetFileInfoTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, err := s.CallTool("get_file_info", map[string]interface{}{"path": "hello.txt"})
	require.NoError(t, err)

	var info query.FileInfo
	require.NoError(t, json.Unmarshal([]byte(text), &info))
	assert.Equal(t, "hello.txt", info.RelativePath)
	assert.Equal(t, query.KindFile, info.Type)
	assert.Equal(t, int64(5), info.SizeBytes)
	assert.Len(t, info.Permissions, 3)
}

func TestEscapingPathSurfacesAsErrorResult(t *testing.T) {
	s, _ := newTestServer(t)

	// The failure comes back as an error-flagged result, never as a
	// protocol-level failure.
	for _, tool := range []string{"list_directory", "read_file", "search_files", "get_file_info"} {
		params := map[string]interface{}{"path": "../../etc"}
		if tool == "search_files" {
			params = map[string]interface{}{"directory": "../../etc", "pattern": "*"}
		}
		_, err := s.CallTool(tool, params)
		require.Error(t, err, "tool %s", tool)
		assert.Contains(t, err.Error(), "MCP error:", "tool %s", tool)
		assert.Contains(t, err.Error(), "invalid path", "tool %s", tool)
	}
}

func TestMalformedArgumentsSurfaceAsErrorResult(t *testing.T) {
	s, _ := newTestServer(t)

	req := &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{
			Name:      "read_file",
			Arguments: json.RawMessage(`{"path": 42}`),
		},
	}
	result, err := s.handleReadFile(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestReadResource(t *testing.T) {
	s, root := newTestServer(t)

	req := &sdkmcp.ReadResourceRequest{
		Params: &sdkmcp.ReadResourceParams{
			URI: "file://" + root + "/hello.txt",
		},
	}
	result, err := s.handleReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "hello", result.Contents[0].Text)
	assert.Equal(t, req.Params.URI, result.Contents[0].URI)
}

func TestReadResourceRejectsForeignURI(t *testing.T) {
	s, _ := newTestServer(t)

	req := &sdkmcp.ReadResourceRequest{
		Params: &sdkmcp.ReadResourceParams{URI: "file:///etc/passwd"},
	}
	_, err := s.handleReadResource(context.Background(), req)
	assert.Error(t, err)
}

func TestReadResourceRootIsNotAFile(t *testing.T) {
	s, root := newTestServer(t)

	req := &sdkmcp.ReadResourceRequest{
		Params: &sdkmcp.ReadResourceParams{URI: "file://" + root},
	}
	_, err := s.handleReadResource(context.Background(), req)
	assert.Error(t, err)
}
